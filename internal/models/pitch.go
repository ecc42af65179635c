package models

import (
	"time"

	"github.com/google/uuid"
)

type Pitch struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Category  string    `json:"category" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  uuid.UUID `json:"authorId" gorm:"type:uuid;index;not null"` // foreign key, immutable
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"` // set once, never updated
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
