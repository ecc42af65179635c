package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kelvinmwangi/pitchhub/internal/auth"
	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/service"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

type contextKey string

const principalKey contextKey = "principal"

// Auth rejects requests without a valid session cookie and threads the
// resolved principal through the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil {
			unauthorized(w)
			return
		}

		claims, err := auth.ParseSessionToken(cookie.Value, config.Envs.JWTSecret)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthorized(w)
			return
		}

		principal := &service.Principal{UserID: userID, Username: claims.Username}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *service.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom extracts the authenticated principal, or nil when the
// request was not authenticated.
func PrincipalFrom(ctx context.Context) *service.Principal {
	p, _ := ctx.Value(principalKey).(*service.Principal)
	return p
}

func unauthorized(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Unauthorized",
	})
}
