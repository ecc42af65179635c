package main

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kelvinmwangi/pitchhub/internal/api"
	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/mail"
	"github.com/kelvinmwangi/pitchhub/internal/repositories"
	"github.com/kelvinmwangi/pitchhub/internal/service"
)

func main() {
	db := repositories.ConnectDatabase(config.Envs.DB_URL)

	users := repositories.NewUserRepository(db)
	pitches := repositories.NewPitchRepository(db)
	resets := repositories.NewResetRepository(db)
	avatars := repositories.NewAvatarRepository(config.Envs.S3)
	mailer := mail.NewMailer(config.Envs.SMTP)

	authSvc := service.NewAuthService(users)
	pitchSvc := service.NewPitchService(pitches, users)
	accountSvc := service.NewAccountService(users, avatars)
	resetSvc := service.NewResetService(users, resets, mailer, config.Envs.Reset)

	handler := api.SetupRouter(authSvc, pitchSvc, accountSvc, resetSvc)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting PitchHub server on port: %s", config.Envs.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", config.Envs.Port, err)
	}
}
