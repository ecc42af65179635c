package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

// Page-size defaults match the original application: three pitches per page
// on the home feed, five on a user's page.
const (
	DefaultFeedPageSize   = 3
	DefaultAuthorPageSize = 5
	MaxPageSize           = 50
)

// Page is one page of a feed plus enough metadata to paginate further.
type Page struct {
	Pitches    []models.Pitch `json:"pitches"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"total"`
	TotalPages int64          `json:"totalPages"`
}

// PitchService mediates all pitch reads and writes. Reads are public;
// mutation requires the principal to own the pitch.
type PitchService struct {
	pitches PitchStore
	users   UserStore
}

func NewPitchService(pitches PitchStore, users UserStore) *PitchService {
	return &PitchService{pitches: pitches, users: users}
}

// Create persists a new pitch owned by the principal. The creator is the
// owner by construction, so no ownership check applies.
func (s *PitchService) Create(ctx context.Context, principal *Principal, category, content string) (*models.Pitch, error) {
	if principal == nil {
		return nil, models.ErrUnauthenticated
	}

	pitch := &models.Pitch{
		Category: category,
		Content:  content,
		AuthorID: principal.UserID,
	}
	if err := s.pitches.Create(ctx, pitch); err != nil {
		return nil, fmt.Errorf("creating pitch: %w", err)
	}
	return pitch, nil
}

// Get returns a pitch by id. Reads are public.
func (s *PitchService) Get(ctx context.Context, id uuid.UUID) (*models.Pitch, error) {
	return s.pitches.ByID(ctx, id)
}

// Update replaces category and content. Only the owning identity may mutate;
// id, author, and creation time are left untouched.
func (s *PitchService) Update(ctx context.Context, principal *Principal, id uuid.UUID, category, content string) (*models.Pitch, error) {
	if principal == nil {
		return nil, models.ErrUnauthenticated
	}

	pitch, err := s.pitches.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pitch.AuthorID != principal.UserID {
		return nil, models.ErrForbidden
	}

	pitch.Category = category
	pitch.Content = content
	if err := s.pitches.Update(ctx, pitch); err != nil {
		return nil, fmt.Errorf("updating pitch: %w", err)
	}
	return pitch, nil
}

// Delete removes a pitch permanently, gated by the same ownership check as
// Update.
func (s *PitchService) Delete(ctx context.Context, principal *Principal, id uuid.UUID) error {
	if principal == nil {
		return models.ErrUnauthenticated
	}

	pitch, err := s.pitches.ByID(ctx, id)
	if err != nil {
		return err
	}
	if pitch.AuthorID != principal.UserID {
		return models.ErrForbidden
	}

	return s.pitches.Delete(ctx, id)
}

// Feed returns one page of the global feed, newest first.
func (s *PitchService) Feed(ctx context.Context, page, pageSize int) (*Page, error) {
	page, pageSize = normalizePaging(page, pageSize, DefaultFeedPageSize)

	pitches, total, err := s.pitches.Feed(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing feed: %w", err)
	}
	return newPage(pitches, page, pageSize, total), nil
}

// ByAuthor returns one page of a single user's pitches, newest first. An
// unknown username fails with ErrNotFound.
func (s *PitchService) ByAuthor(ctx context.Context, username string, page, pageSize int) (*Page, error) {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	page, pageSize = normalizePaging(page, pageSize, DefaultAuthorPageSize)

	pitches, total, err := s.pitches.ByAuthor(ctx, user.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing pitches by author: %w", err)
	}
	return newPage(pitches, page, pageSize, total), nil
}

func normalizePaging(page, pageSize, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = fallback
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func newPage(pitches []models.Pitch, page, pageSize int, total int64) *Page {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return &Page{
		Pitches:    pitches,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
