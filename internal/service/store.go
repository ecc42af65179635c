// Package service implements the application operations: registration and
// login, ownership-gated pitch CRUD, account updates, and the password
// recovery flow. Collaborators are consumed through the interfaces below so
// the operations stay testable without a database.
package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type PitchStore interface {
	Create(ctx context.Context, pitch *models.Pitch) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Pitch, error)
	Update(ctx context.Context, pitch *models.Pitch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Feed(ctx context.Context, offset, limit int) ([]models.Pitch, int64, error)
	ByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]models.Pitch, int64, error)
}

type ResetStore interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	Consume(ctx context.Context, jti uuid.UUID) error
	PurgeExpired(ctx context.Context) error
}

type AvatarStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	URL(key string) string
}

type Mailer interface {
	Send(to, subject, body string) error
}
