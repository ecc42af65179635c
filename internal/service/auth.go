package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

// AuthService handles account creation and credential verification.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new account with a bcrypt-hashed password. Username and
// email must be globally unique.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// RegisterExternal creates an account for an identity asserted by an OAuth
// provider. The stored password hash is empty, so password login can never
// succeed for it.
func (s *AuthService) RegisterExternal(ctx context.Context, username, email string) (*models.User, error) {
	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: "",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Authenticate verifies an email/password pair. Unknown emails and wrong
// passwords both fail with ErrInvalidCredentials so the response does not
// reveal which one was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// UserByEmail looks up an account for the OAuth callback.
func (s *AuthService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.ByEmail(ctx, email)
}

func (s *AuthService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.ByUsername(ctx, username); err == nil {
		return models.ErrUsernameTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}
