package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/models"
	"github.com/kelvinmwangi/pitchhub/internal/service"
)

// --- in-memory collaborators ---

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUsers) ByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[u.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.Username, stored.Email, stored.Avatar = u.Username, u.Email, u.Avatar
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[id]
	if !ok {
		return models.ErrNotFound
	}
	stored.Password = hash
	return nil
}

type memPitches struct {
	mu      sync.Mutex
	pitches map[uuid.UUID]*models.Pitch
}

func (m *memPitches) Create(_ context.Context, p *models.Pitch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cp := *p
	m.pitches[p.ID] = &cp
	return nil
}

func (m *memPitches) ByID(_ context.Context, id uuid.UUID) (*models.Pitch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pitches[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (m *memPitches) Update(_ context.Context, p *models.Pitch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.pitches[p.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.Category, stored.Content = p.Category, p.Content
	return nil
}

func (m *memPitches) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pitches[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.pitches, id)
	return nil
}

func (m *memPitches) list(authorID *uuid.UUID, offset, limit int) ([]models.Pitch, int64) {
	var all []models.Pitch
	for _, p := range m.pitches {
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
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total
}

func (m *memPitches) Feed(_ context.Context, offset, limit int) ([]models.Pitch, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, total := m.list(nil, offset, limit)
	return page, total, nil
}

func (m *memPitches) ByAuthor(_ context.Context, authorID uuid.UUID, offset, limit int) ([]models.Pitch, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, total := m.list(&authorID, offset, limit)
	return page, total, nil
}

type memResets struct {
	mu     sync.Mutex
	resets map[uuid.UUID]*models.PasswordReset
}

func (m *memResets) Create(_ context.Context, r *models.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.resets[r.ID] = &cp
	return nil
}

func (m *memResets) Consume(_ context.Context, jti uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[jti]
	if !ok || r.Redeemed || time.Now().After(r.ExpiresAt) {
		return models.ErrInvalidToken
	}
	r.Redeemed = true
	return nil
}

func (m *memResets) PurgeExpired(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.resets {
		if time.Now().After(r.ExpiresAt) {
			delete(m.resets, id)
		}
	}
	return nil
}

type memAvatars struct {
	mu   sync.Mutex
	keys []string
}

func (m *memAvatars) Upload(_ context.Context, key, _ string, body io.Reader) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return nil
}

func (m *memAvatars) URL(key string) string { return "https://cdn.example.com/" + key }

type memMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *memMailer) Send(_, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

// --- harness ---

type apiEnv struct {
	t      *testing.T
	server *httptest.Server
	mailer *memMailer
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	users := &memUsers{users: map[uuid.UUID]*models.User{}}
	pitches := &memPitches{pitches: map[uuid.UUID]*models.Pitch{}}
	resets := &memResets{resets: map[uuid.UUID]*models.PasswordReset{}}
	avatars := &memAvatars{}
	mailer := &memMailer{}

	handler := SetupRouter(
		service.NewAuthService(users),
		service.NewPitchService(pitches, users),
		service.NewAccountService(users, avatars),
		service.NewResetService(users, resets, mailer, config.Envs.Reset),
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &apiEnv{t: t, server: server, mailer: mailer}
}

type apiResponse struct {
	Status  int
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Cookies []*http.Cookie
}

func (e *apiEnv) do(method, path, cookie string, body io.Reader, contentType string) apiResponse {
	e.t.Helper()

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(e.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		req.Header.Set("Cookie", "token="+cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode, Cookies: resp.Cookies()}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func (e *apiEnv) doJSON(method, path, cookie string, payload any) apiResponse {
	e.t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(e.t, err)
	return e.do(method, path, cookie, bytes.NewReader(raw), "application/json")
}

func (e *apiEnv) signUp(username, email, password string) {
	e.t.Helper()
	resp := e.doJSON(http.MethodPost, "/api/v1/auth/sign-up", "", map[string]any{
		"username":        username,
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	})
	require.Equal(e.t, http.StatusCreated, resp.Status, "sign-up failed: %s", resp.Message)
}

func (e *apiEnv) login(email, password string) string {
	e.t.Helper()
	resp := e.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(e.t, http.StatusOK, resp.Status, "login failed: %s", resp.Message)
	for _, c := range resp.Cookies {
		if c.Name == "token" && c.Value != "" {
			return c.Value
		}
	}
	e.t.Fatal("login response did not set a session cookie")
	return ""
}

// --- tests ---

func TestAPI_SignUpValidation(t *testing.T) {
	env := newAPIEnv(t)

	resp := env.doJSON(http.MethodPost, "/api/v1/auth/sign-up", "", map[string]any{
		"username":        "x",
		"email":           "not-an-email",
		"password":        "short",
		"confirmPassword": "different",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, resp.Errors, "username")
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
	assert.Contains(t, resp.Errors, "confirmpassword")
}

func TestAPI_PitchOwnershipLifecycle(t *testing.T) {
	env := newAPIEnv(t)

	env.signUp("alice", "a@x.com", "password-alice")
	env.signUp("bob", "b@x.com", "password-bob!")
	alice := env.login("a@x.com", "password-alice")
	bob := env.login("b@x.com", "password-bob!")

	// unauthenticated create is rejected
	resp := env.doJSON(http.MethodPost, "/api/v1/pitches", "", map[string]any{
		"category": "idea", "content": "no session",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	// alice creates a pitch
	resp = env.doJSON(http.MethodPost, "/api/v1/pitches", alice, map[string]any{
		"category": "idea", "content": "original content",
	})
	require.Equal(t, http.StatusCreated, resp.Status)

	var created models.Pitch
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	pitchPath := fmt.Sprintf("/api/v1/pitches/%s", created.ID)

	// public read
	resp = env.do(http.MethodGet, pitchPath, "", nil, "")
	assert.Equal(t, http.StatusOK, resp.Status)

	// bob may not mutate
	resp = env.doJSON(http.MethodPut, pitchPath, bob, map[string]any{
		"category": "idea", "content": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Status)
	resp = env.do(http.MethodDelete, pitchPath, bob, nil, "")
	assert.Equal(t, http.StatusForbidden, resp.Status)

	// alice may; id, owner, and timestamp survive the update
	resp = env.doJSON(http.MethodPut, pitchPath, alice, map[string]any{
		"category": "promotion", "content": "revised content",
	})
	require.Equal(t, http.StatusOK, resp.Status)

	resp = env.do(http.MethodGet, pitchPath, "", nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	var fetched models.Pitch
	require.NoError(t, json.Unmarshal(resp.Data, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.AuthorID, fetched.AuthorID)
	assert.True(t, fetched.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, "revised content", fetched.Content)

	resp = env.do(http.MethodDelete, pitchPath, alice, nil, "")
	assert.Equal(t, http.StatusOK, resp.Status)
	resp = env.do(http.MethodGet, pitchPath, "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestAPI_Feeds(t *testing.T) {
	env := newAPIEnv(t)

	env.signUp("alice", "a@x.com", "password-alice")
	alice := env.login("a@x.com", "password-alice")

	for i := 0; i < 4; i++ {
		resp := env.doJSON(http.MethodPost, "/api/v1/pitches", alice, map[string]any{
			"category": "idea", "content": fmt.Sprintf("pitch %d", i),
		})
		require.Equal(t, http.StatusCreated, resp.Status)
	}

	resp := env.do(http.MethodGet, "/api/v1/pitches?page=1&page_size=3", "", nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	var page service.Page
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Pitches, 3)

	resp = env.do(http.MethodGet, "/api/v1/users/alice/pitches", "", nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(4), page.Total)

	resp = env.do(http.MethodGet, "/api/v1/users/nobody/pitches", "", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestAPI_AccountUpdate(t *testing.T) {
	env := newAPIEnv(t)

	env.signUp("alice", "a@x.com", "password-alice")
	alice := env.login("a@x.com", "password-alice")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("username", "alice-renamed"))
	fw, err := mw.CreateFormFile("avatar", "portrait.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := env.do(http.MethodPatch, "/api/v1/account", alice, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.Status, "account update failed: %s", resp.Message)

	var data struct {
		Username  string `json:"username"`
		Avatar    string `json:"avatar"`
		AvatarURL string `json:"avatarUrl"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "alice-renamed", data.Username)
	assert.NotEqual(t, "default.jpg", data.Avatar)
	assert.Contains(t, data.AvatarURL, data.Avatar)

	// unauthenticated access is rejected
	resp = env.do(http.MethodGet, "/api/v1/account", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestAPI_PasswordResetFlow(t *testing.T) {
	env := newAPIEnv(t)

	env.signUp("alice", "a@x.com", "old-password")

	resp := env.doJSON(http.MethodPost, "/api/v1/auth/reset-password", "", map[string]any{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, env.mailer.sent, 1)

	tok := resetTokenFromBody(t, env.mailer.sent[0])
	resp = env.doJSON(http.MethodPost, "/api/v1/auth/reset-password/"+tok, "", map[string]any{
		"password":        "brand-new-pass",
		"confirmPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, resp.Status, "redeem failed: %s", resp.Message)

	// new password works, old one does not
	env.login("a@x.com", "brand-new-pass")
	resp = env.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "a@x.com", "password": "old-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	// the token is single-use
	resp = env.doJSON(http.MethodPost, "/api/v1/auth/reset-password/"+tok, "", map[string]any{
		"password":        "another-pass-1",
		"confirmPassword": "another-pass-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	// unknown email gets the same success response as a known one
	resp = env.doJSON(http.MethodPost, "/api/v1/auth/reset-password", "", map[string]any{
		"email": "ghost@x.com",
	})
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, env.mailer.sent, 1, "no mail for unknown accounts")
}

func resetTokenFromBody(t *testing.T, body string) string {
	t.Helper()
	const marker = "/reset-password/"
	idx := bytes.Index([]byte(body), []byte(marker))
	require.GreaterOrEqual(t, idx, 0)
	rest := body[idx+len(marker):]
	for i, r := range rest {
		if r == '\n' || r == ' ' || r == '\r' {
			return rest[:i]
		}
	}
	return rest
}
