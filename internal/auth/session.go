// Package auth issues and verifies the signed session tokens carried in the
// "token" cookie.
package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

// SessionCookieName is the cookie holding the session JWT.
const SessionCookieName = "token"

// Claims is the session token payload.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewSessionToken signs a session JWT for the given user.
func NewSessionToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry of a session JWT and
// returns its claims.
func ParseSessionToken(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}
	if claims.UserID == "" {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}

// SessionCookie builds the session cookie. A persistent session gets an
// explicit MaxAge so it survives client restart; an ephemeral one is dropped
// when the browser session ends.
func SessionCookie(token string, ttl time.Duration, persistent, isProd bool) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	}
	if persistent {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}

// ClearSessionCookie returns a cookie that deletes the session cookie.
func ClearSessionCookie(isProd bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
