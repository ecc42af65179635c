package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/models"
	"github.com/kelvinmwangi/pitchhub/internal/token"
)

const resetSubject = "Password Reset Request"

// ResetService implements the credential-recovery flow: issue a signed,
// time-limited token, mail it, and redeem it exactly once.
type ResetService struct {
	users  UserStore
	resets ResetStore
	mailer Mailer

	secret   string
	tokenTTL time.Duration
	linkBase string
	// reveal controls whether a request for an unknown email is
	// distinguishable from a known one. Off by default.
	reveal bool
}

func NewResetService(users UserStore, resets ResetStore, mailer Mailer, cfg config.ResetConfig) *ResetService {
	return &ResetService{
		users:    users,
		resets:   resets,
		mailer:   mailer,
		secret:   cfg.Secret,
		tokenTTL: cfg.TokenTTL,
		linkBase: cfg.LinkBaseURL,
		reveal:   cfg.RevealAccounts,
	}
}

// Request issues a reset token for the account with the given email and
// mails it. For an unknown email the flow completes silently unless the
// reveal option is on.
func (s *ResetService) Request(ctx context.Context, email string) error {
	// Stale records are swept on each request so the table does not grow
	// without bound. Failure to sweep must not block issuing a new token.
	if err := s.resets.PurgeExpired(ctx); err != nil {
		log.WithError(err).Warn("failed to purge expired reset tokens")
	}

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if s.reveal {
				return models.ErrNotFound
			}
			return nil
		}
		return err
	}

	signed, jti, err := token.NewResetToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return fmt.Errorf("signing reset token: %w", err)
	}

	reset := &models.PasswordReset{
		ID:        jti,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return fmt.Errorf("recording reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.linkBase, signed)
	body := fmt.Sprintf(`To reset your password, visit the following link:
%s

If you did not make this request then simply ignore this email and no changes will be made.
`, link)

	// Mail dispatch is fire-and-forget: a transport failure must not make
	// the request look different from the unknown-email case.
	if err := s.mailer.Send(user.Email, resetSubject, body); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("failed to send reset email")
	}
	return nil
}

// Redeem verifies the token and sets a new password. Each token redeems at
// most once: the stored record is consumed before the hash is replaced, so a
// replayed token fails with ErrInvalidToken even inside its validity window.
func (s *ResetService) Redeem(ctx context.Context, tokenStr, newPassword string) error {
	userID, jti, err := token.ParseResetToken(tokenStr, s.secret)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// Consume wins over a concurrent redemption of the same token, so it
	// runs before the hash is written. If the write then fails the token is
	// already spent and the user has to request a fresh one; the reverse
	// order would let a replayed token overwrite the password twice.
	if err := s.resets.Consume(ctx, jti); err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}
