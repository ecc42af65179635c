package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kelvinmwangi/pitchhub/internal/service"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

type ResetHandler struct {
	reset *service.ResetService
}

func NewResetHandler(reset *service.ResetService) *ResetHandler {
	return &ResetHandler{reset: reset}
}

type resetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /auth/reset-password
func (h *ResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	var input resetRequestInput

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

	if err := h.reset.Request(r.Context(), input.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "An email has been sent with instructions on how to reset your password.",
	})
}

type resetRedeemInput struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// POST /auth/reset-password/{token}
func (h *ResetHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.PathValue("token")
	if tokenStr == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Missing reset token",
		})
		return
	}

	var input resetRedeemInput

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

	if err := h.reset.Redeem(r.Context(), tokenStr, input.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Your password has been updated! You can now log in.",
	})
}
