package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

type ResetRepository struct {
	db *gorm.DB
}

func NewResetRepository(db *gorm.DB) *ResetRepository {
	return &ResetRepository{db: db}
}

func (r *ResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

// Consume marks the reset identified by jti as redeemed. The conditional
// update makes redemption single-use: a second call, or a call for an unknown
// or already-expired record, affects zero rows and fails with ErrInvalidToken.
func (r *ResetRepository) Consume(ctx context.Context, jti uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("id = ? AND redeemed = ? AND expires_at > ?", jti, false, time.Now()).
		Update("redeemed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrInvalidToken
	}
	return nil
}

// PurgeExpired removes stale reset records. Called opportunistically; errors
// other than connectivity are not expected.
func (r *ResetRepository) PurgeExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.PasswordReset{}).Error
}
