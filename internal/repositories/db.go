package repositories

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

// ConnectDatabase opens the Postgres connection and runs migrations.
func ConnectDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Pitch{},
		&models.PasswordReset{},
	)
	if err != nil {
		log.Fatal("Migration failed: ", err)
	}
	log.Println("Successfully connected to database")
	return db
}
