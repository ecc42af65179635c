package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/kelvinmwangi/pitchhub/internal/api/services"
	"github.com/kelvinmwangi/pitchhub/internal/auth"
	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/models"
	"github.com/kelvinmwangi/pitchhub/internal/service"
)

type OAuthHandler struct {
	auth *service.AuthService
}

func NewOAuthHandler(authSvc *service.AuthService) *OAuthHandler {
	return &OAuthHandler{auth: authSvc}
}

// GET /auth/google/login
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get("flow") // "login" or "register"
	if flow == "" {
		flow = "login"
	}

	state, err := GenerateState(map[string]string{"flow": flow})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	url := services.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GET /auth/google/callback
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	frontend := config.Envs.Google.FrontendURL

	stateData, err := DecodeState(r.FormValue("state"))
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	flow := stateData["flow"]

	oauthToken, err := services.GoogleOauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.WithError(err).Error("google code exchange failed")
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	client := services.GoogleOauthConfig.Client(r.Context(), oauthToken)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	user, err := h.auth.UserByEmail(r.Context(), googleUser.Email)

	switch flow {
	case "register":
		if err == nil {
			http.Redirect(w, r, frontend+"/login?error=user_already_exists", http.StatusTemporaryRedirect)
			return
		}
		if !errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		user, err = h.auth.RegisterExternal(r.Context(), googleUser.Name, googleUser.Email)
		if err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

	default: // login
		if errors.Is(err, models.ErrNotFound) {
			http.Redirect(w, r, frontend+"/signup?error=user_not_found", http.StatusTemporaryRedirect)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	ttl := config.Envs.Session.TTL
	tokenStr, err := auth.NewSessionToken(user, config.Envs.JWTSecret, ttl)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	isProd := config.Envs.Environment == "production"
	http.SetCookie(w, auth.SessionCookie(tokenStr, ttl, true, isProd))

	redirectURL := fmt.Sprintf("%s/?status=success_%s", frontend, flow)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
