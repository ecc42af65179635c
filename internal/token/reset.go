// Package token signs and verifies the time-limited password-reset tokens
// mailed to users. Reset tokens are deliberately separate from session tokens:
// they carry a purpose claim and their own secret so one can never stand in
// for the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kelvinmwangi/pitchhub/internal/models"
)

const resetPurpose = "password_reset"

// NewResetToken signs a reset token binding the user's id and an issuance
// time. The returned jti identifies this token for single-use tracking.
func NewResetToken(userID uuid.UUID, secret string, ttl time.Duration) (string, uuid.UUID, error) {
	jti := uuid.New()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":     userID.String(),
		"jti":     jti.String(),
		"purpose": resetPurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", uuid.Nil, err
	}
	return signed, jti, nil
}

// ParseResetToken verifies signature, purpose, and expiry, returning the
// target user id and the token's jti. Expiry surfaces as ErrExpiredToken;
// every other failure is ErrInvalidToken.
func ParseResetToken(tokenStr, secret string) (uuid.UUID, uuid.UUID, error) {
	claims := jwt.MapClaims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, uuid.Nil, models.ErrExpiredToken
		}
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}
	if !parsed.Valid {
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}

	if purpose, ok := claims["purpose"].(string); !ok || purpose != resetPurpose {
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}

	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}
	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, models.ErrInvalidToken
	}

	return userID, jti, nil
}
