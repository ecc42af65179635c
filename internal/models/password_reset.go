package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset records one issued reset token so redemption can be made
// single-use. ID is the token's jti claim.
type PasswordReset struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	Redeemed  bool      `json:"redeemed" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
