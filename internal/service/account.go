package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kelvinmwangi/pitchhub/internal/models"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

// AvatarUpload carries a replacement profile picture.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// AccountUpdate is the typed input for Update. Empty Username/Email mean
// "keep the current value".
type AccountUpdate struct {
	Username string
	Email    string
	Avatar   *AvatarUpload
}

// AccountService manages the caller's own profile. Every operation is scoped
// to the principal; no other identity can be targeted.
type AccountService struct {
	users   UserStore
	avatars AvatarStore
}

func NewAccountService(users UserStore, avatars AvatarStore) *AccountService {
	return &AccountService{users: users, avatars: avatars}
}

// Profile returns the principal's account record.
func (s *AccountService) Profile(ctx context.Context, principal *Principal) (*models.User, error) {
	if principal == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.users.ByID(ctx, principal.UserID)
}

// Update changes username, email, and avatar. A replacement avatar is stored
// under a freshly generated random name so uploads never collide or
// overwrite.
func (s *AccountService) Update(ctx context.Context, principal *Principal, in AccountUpdate) (*models.User, error) {
	if principal == nil {
		return nil, models.ErrUnauthenticated
	}

	user, err := s.users.ByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if _, err := s.users.ByUsername(ctx, in.Username); err == nil {
			return nil, models.ErrUsernameTaken
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		user.Username = in.Username
	}

	if in.Email != "" && in.Email != user.Email {
		if _, err := s.users.ByEmail(ctx, in.Email); err == nil {
			return nil, models.ErrEmailTaken
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		user.Email = in.Email
	}

	if in.Avatar != nil {
		name, err := s.storeAvatar(ctx, in.Avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = name
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}
	return user, nil
}

// AvatarURL resolves a stored avatar filename to its public URL.
func (s *AccountService) AvatarURL(filename string) string {
	return s.avatars.URL(filename)
}

func (s *AccountService) storeAvatar(ctx context.Context, av *AvatarUpload) (string, error) {
	hex, err := utils.RandomHex(8)
	if err != nil {
		return "", fmt.Errorf("generating avatar name: %w", err)
	}
	name := hex + strings.ToLower(filepath.Ext(av.Filename))

	if err := s.avatars.Upload(ctx, name, av.ContentType, av.Data); err != nil {
		return "", fmt.Errorf("storing avatar: %w", err)
	}
	return name, nil
}
