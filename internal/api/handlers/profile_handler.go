package handlers

import (
	"context"
	"net/http"

	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// ProfileService defines the profile operations used by the handler
type ProfileService interface {
	Get(ctx context.Context, identity entities.Identity) (*entities.User, error)
	Update(ctx context.Context, identity entities.Identity, name, bio *string) (*entities.User, error)
}

// ProfileHandler serves the caller's own profile
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type profileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// GetProfile handles GET /api/me
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/me
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profileRequest
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.Update(r.Context(), middleware.IdentityFromContext(r.Context()), payload.Name, payload.Bio)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
