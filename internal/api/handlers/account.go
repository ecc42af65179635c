package handlers

import (
	"net/http"

	"github.com/kelvinmwangi/pitchhub/internal/api/middleware"
	"github.com/kelvinmwangi/pitchhub/internal/models"
	"github.com/kelvinmwangi/pitchhub/internal/service"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

type AccountHandler struct {
	account *service.AccountService
}

func NewAccountHandler(account *service.AccountService) *AccountHandler {
	return &AccountHandler{account: account}
}

// GET /account
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	user, err := h.account.Profile(r.Context(), principal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Account retrieved successfully",
		Data:    h.accountData(user),
	})
}

// PATCH /account
// UpdateAccount godoc
// @Summary Update the signed-in user's profile
// @Description Updates username, email, and optionally the avatar image.
// @Tags Account
// @Accept multipart/form-data
// @Produce json
// @Param username formData string false "New username"
// @Param email formData string false "New email"
// @Param avatar formData file false "New avatar image"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/account [patch]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	const maxUploadSize = 5 << 20 // 5 MB
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid account update form",
		})
		return
	}

	in := service.AccountUpdate{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
	}

	if in.Username != "" {
		if err := validate.Var(in.Username, "min=2,max=20"); err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid input",
				Errors:  map[string]string{"username": "must be between 2 and 20 characters"},
			})
			return
		}
	}
	if in.Email != "" {
		if err := validate.Var(in.Email, "email"); err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid input",
				Errors:  map[string]string{"email": "must be a valid email address"},
			})
			return
		}
	}

	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		in.Avatar = &service.AvatarUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        file,
		}
	}

	principal := middleware.PrincipalFrom(r.Context())
	user, err := h.account.Update(r.Context(), principal, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Your account has been updated!",
		Data:    h.accountData(user),
	})
}

func (h *AccountHandler) accountData(user *models.User) map[string]any {
	return map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"avatar":    user.Avatar,
		"avatarUrl": h.account.AvatarURL(user.Avatar),
		"createdAt": user.CreatedAt,
	}
}
