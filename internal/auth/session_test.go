package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Username: "alice", Email: "a@x.com"}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	user := testUser()
	tok, err := NewSessionToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestSessionTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken(testUser(), "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(tok, "secret")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken(testUser(), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(tok, "other")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestSessionCookieLifetime(t *testing.T) {
	t.Parallel()

	persistent := SessionCookie("tok", time.Hour, true, false)
	assert.Equal(t, int((time.Hour).Seconds()), persistent.MaxAge, "persistent session survives client restart")

	ephemeral := SessionCookie("tok", time.Hour, false, false)
	assert.Zero(t, ephemeral.MaxAge, "ephemeral session ends with the browser session")

	assert.True(t, persistent.HttpOnly)

	cleared := ClearSessionCookie(false)
	assert.Negative(t, cleared.MaxAge)
}
