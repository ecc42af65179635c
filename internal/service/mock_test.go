package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

// In-memory fakes for the store interfaces, shared across the service tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) ByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) ByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[user.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.Avatar = user.Avatar
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	stored.Password = hash
	return nil
}

type fakePitchStore struct {
	mu      sync.Mutex
	pitches map[uuid.UUID]*models.Pitch
}

func newFakePitchStore() *fakePitchStore {
	return &fakePitchStore{pitches: map[uuid.UUID]*models.Pitch{}}
}

func (f *fakePitchStore) Create(_ context.Context, pitch *models.Pitch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pitch.ID == uuid.Nil {
		pitch.ID = uuid.New()
	}
	if pitch.CreatedAt.IsZero() {
		pitch.CreatedAt = time.Now()
	}
	cp := *pitch
	f.pitches[pitch.ID] = &cp
	return nil
}

func (f *fakePitchStore) ByID(_ context.Context, id uuid.UUID) (*models.Pitch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.pitches[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

// Update mirrors the repository contract: category and content only.
func (f *fakePitchStore) Update(_ context.Context, pitch *models.Pitch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.pitches[pitch.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.Category = pitch.Category
	stored.Content = pitch.Content
	return nil
}

func (f *fakePitchStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pitches[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.pitches, id)
	return nil
}

func (f *fakePitchStore) Feed(_ context.Context, offset, limit int) ([]models.Pitch, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pageOf(f.sorted(nil), offset, limit)
}

func (f *fakePitchStore) ByAuthor(_ context.Context, authorID uuid.UUID, offset, limit int) ([]models.Pitch, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pageOf(f.sorted(&authorID), offset, limit)
}

// sorted returns pitches newest first, id ascending on equal timestamps,
// matching the repository ordering.
func (f *fakePitchStore) sorted(authorID *uuid.UUID) []models.Pitch {
	var all []models.Pitch
	for _, p := range f.pitches {
		if authorID != nil && p.AuthorID != *authorID {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return bytes.Compare(all[i].ID[:], all[j].ID[:]) < 0
	})
	return all
}

func pageOf(all []models.Pitch, offset, limit int) ([]models.Pitch, int64, error) {
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeResetStore struct {
	mu     sync.Mutex
	resets map[uuid.UUID]*models.PasswordReset
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{resets: map[uuid.UUID]*models.PasswordReset{}}
}

func (f *fakeResetStore) Create(_ context.Context, reset *models.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *reset
	f.resets[reset.ID] = &cp
	return nil
}

func (f *fakeResetStore) Consume(_ context.Context, jti uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reset, ok := f.resets[jti]
	if !ok || reset.Redeemed || time.Now().After(reset.ExpiresAt) {
		return models.ErrInvalidToken
	}
	reset.Redeemed = true
	return nil
}

func (f *fakeResetStore) PurgeExpired(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, reset := range f.resets {
		if time.Now().After(reset.ExpiresAt) {
			delete(f.resets, id)
		}
	}
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type storedAvatar struct {
	Key         string
	ContentType string
	Data        []byte
}

type fakeAvatarStore struct {
	mu     sync.Mutex
	stored []storedAvatar
}

func (f *fakeAvatarStore) Upload(_ context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, storedAvatar{Key: key, ContentType: contentType, Data: data})
	return nil
}

func (f *fakeAvatarStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}
