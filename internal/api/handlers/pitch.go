package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/kelvinmwangi/pitchhub/internal/api/middleware"
	"github.com/kelvinmwangi/pitchhub/internal/service"
	"github.com/kelvinmwangi/pitchhub/internal/utils"
)

type PitchHandler struct {
	pitches *service.PitchService
}

func NewPitchHandler(pitches *service.PitchService) *PitchHandler {
	return &PitchHandler{pitches: pitches}
}

type pitchRequest struct {
	Category string `json:"category" validate:"required,max=50"`
	Content  string `json:"content" validate:"required"`
}

// POST /pitches
// CreatePitch godoc
// @Summary Create a new pitch
// @Description Creates a pitch owned by the signed-in user.
// @Tags Pitches
// @Accept json
// @Produce json
// @Param pitch body pitchRequest true "Pitch to create"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/pitches [post]
func (h *PitchHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodePitch(w, r)
	if !ok {
		return
	}

	principal := middleware.PrincipalFrom(r.Context())
	pitch, err := h.pitches.Create(r.Context(), principal, input.Category, input.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Your post has been created!",
		Data:    pitch,
	})
}

// GET /pitches/{id}
func (h *PitchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pitchID(w, r)
	if !ok {
		return
	}

	pitch, err := h.pitches.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Pitch retrieved successfully",
		Data:    pitch,
	})
}

// PUT /pitches/{id}
// UpdatePitch godoc
// @Summary Update a pitch
// @Description Replaces category and content. Only the owner may update.
// @Tags Pitches
// @Accept json
// @Produce json
// @Param id path string true "Pitch ID"
// @Param pitch body pitchRequest true "New category and content"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/pitches/{id} [put]
func (h *PitchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pitchID(w, r)
	if !ok {
		return
	}
	input, ok := decodePitch(w, r)
	if !ok {
		return
	}

	principal := middleware.PrincipalFrom(r.Context())
	pitch, err := h.pitches.Update(r.Context(), principal, id, input.Category, input.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Your pitch has been updated!",
		Data:    pitch,
	})
}

// DELETE /pitches/{id}
func (h *PitchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pitchID(w, r)
	if !ok {
		return
	}

	principal := middleware.PrincipalFrom(r.Context())
	if err := h.pitches.Delete(r.Context(), principal, id); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Your pitch has been deleted!",
	})
}

// GET /pitches
// Feed godoc
// @Summary Paginated home feed
// @Description Returns pitches newest first. Ordering is stable across pages.
// @Tags Pitches
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.Payload
// @Router /api/v1/pitches [get]
func (h *PitchHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagingParams(r)

	feed, err := h.pitches.Feed(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Feed retrieved successfully",
		Data:    feed,
	})
}

// GET /users/{username}/pitches
func (h *PitchHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Missing username",
		})
		return
	}

	page, pageSize := pagingParams(r)
	feed, err := h.pitches.ByAuthor(r.Context(), username, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Pitches retrieved successfully",
		Data:    feed,
	})
}

func decodePitch(w http.ResponseWriter, r *http.Request) (pitchRequest, bool) {
	var input pitchRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return input, false
	}

	if err := validate.Struct(input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
			Errors:  validationErrors(err),
		})
		return input, false
	}
	return input, true
}

func pitchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid pitch id",
		})
		return uuid.Nil, false
	}
	return id, true
}
