package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

type PitchRepository struct {
	db *gorm.DB
}

func NewPitchRepository(db *gorm.DB) *PitchRepository {
	return &PitchRepository{db: db}
}

func (r *PitchRepository) Create(ctx context.Context, pitch *models.Pitch) error {
	return r.db.WithContext(ctx).Create(pitch).Error
}

func (r *PitchRepository) ByID(ctx context.Context, id uuid.UUID) (*models.Pitch, error) {
	var pitch models.Pitch
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&pitch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &pitch, nil
}

// Update writes category and content only. ID, author, and creation time are
// immutable after creation.
func (r *PitchRepository) Update(ctx context.Context, pitch *models.Pitch) error {
	return r.db.WithContext(ctx).
		Model(pitch).
		Select("category", "content").
		Updates(pitch).Error
}

func (r *PitchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Pitch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Feed returns one page of the global feed plus the total pitch count. The
// page query and the count run concurrently. Ordering is newest first with id
// as tiebreak so pagination stays stable across requests.
func (r *PitchRepository) Feed(ctx context.Context, offset, limit int) ([]models.Pitch, int64, error) {
	var (
		pitches []models.Pitch
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Preload("Author").
			Order("created_at DESC, id ASC").
			Offset(offset).
			Limit(limit).
			Find(&pitches).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Pitch{}).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return pitches, total, nil
}

// ByAuthor is the per-user variant of Feed, restricted to one author.
func (r *PitchRepository) ByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]models.Pitch, int64, error) {
	var (
		pitches []models.Pitch
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Preload("Author").
			Where("author_id = ?", authorID).
			Order("created_at DESC, id ASC").
			Offset(offset).
			Limit(limit).
			Find(&pitches).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Pitch{}).
			Where("author_id = ?", authorID).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return pitches, total, nil
}
