package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kelvinmwangi/pitchhub/internal/auth"
	"github.com/kelvinmwangi/pitchhub/internal/config"
	"github.com/kelvinmwangi/pitchhub/internal/service"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

type signUpRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// POST /auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input signUpRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	if err := validate.Struct(input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
			Errors:  validationErrors(err),
		})
		return
	}

	user, err := h.auth.Register(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Your account has been successfully created! You can now log in.",
		Data:    map[string]any{"id": user.ID, "username": user.Username},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	if err := validate.Struct(input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
			Errors:  validationErrors(err),
		})
		return
	}

	user, err := h.auth.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ttl := config.Envs.Session.TTL
	if input.Remember {
		ttl = config.Envs.Session.RememberTTL
	}

	tokenStr, err := auth.NewSessionToken(user, config.Envs.JWTSecret, ttl)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}

	isProd := config.Envs.Environment == "production"
	http.SetCookie(w, auth.SessionCookie(tokenStr, ttl, input.Remember, isProd))

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data:    map[string]any{"id": user.ID, "username": user.Username},
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	isProd := config.Envs.Environment == "production"
	http.SetCookie(w, auth.ClearSessionCookie(isProd))

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}
