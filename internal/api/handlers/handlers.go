package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/kelvinmwangi/pitchhub/internal/models"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

var validate = validator.New()

// validationErrors flattens validator output into field-level messages.
func validationErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "this field is required"
		case "email":
			fields[name] = "must be a valid email address"
		case "min":
			fields[name] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "eqfield":
			fields[name] = "does not match"
		default:
			fields[name] = "is invalid"
		}
	}
	return fields
}

// writeServiceError maps domain errors onto HTTP responses. Anything
// unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Invalid credentials",
		})
	case errors.Is(err, models.ErrForbidden):
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "You do not own this resource",
		})
	case errors.Is(err, models.ErrNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Not found",
		})
	case errors.Is(err, models.ErrUsernameTaken):
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Username is already taken",
			Errors:  map[string]string{"username": "already taken"},
		})
	case errors.Is(err, models.ErrEmailTaken):
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "User already exists with this email",
			Errors:  map[string]string{"email": "already registered"},
		})
	case errors.Is(err, models.ErrInvalidToken):
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid reset token",
		})
	case errors.Is(err, models.ErrExpiredToken):
		utils.JSONResponse(w, http.StatusGone, utils.Payload{
			Success: false,
			Message: "This reset link has expired",
		})
	default:
		log.WithError(err).Error("request failed")
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Internal server error",
		})
	}
}

// page/page_size query parameters; zero values let the service apply its
// defaults.
func pagingParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}
