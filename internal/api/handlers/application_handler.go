package handlers

import (
	"context"
	"net/http"

	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// ApplicationService defines the application operations used by the handler
type ApplicationService interface {
	Apply(ctx context.Context, identity entities.Identity, jobID string) (*entities.FeedWrite, error)
	Cancel(ctx context.Context, identity entities.Identity, jobID string) (*entities.FeedWrite, error)
	UpdateStatus(ctx context.Context, identity entities.Identity, applicationID string, status entities.ApplicationStatus) ([]entities.Applicant, error)
	ListApplicants(ctx context.Context, identity entities.Identity, jobID string) ([]entities.Applicant, error)
}

// ApplicationHandler handles applying to jobs and deciding on applicants
type ApplicationHandler struct {
	service ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type statusRequest struct {
	Status entities.ApplicationStatus `json:"status"`
}

// refreshFailedResponse tells the client its write landed but the feed could not be re-read
type refreshFailedResponse struct {
	RefreshFailed bool   `json:"refresh_failed"`
	Error         string `json:"error"`
}

// Apply handles POST /api/jobs/{id}/applications and returns the refreshed feed
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Apply(r.Context(), middleware.IdentityFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithFeedWrite(w, http.StatusCreated, result)
}

// Cancel handles DELETE /api/jobs/{id}/applications and returns the refreshed feed
func (h *ApplicationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Cancel(r.Context(), middleware.IdentityFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithFeedWrite(w, http.StatusOK, result)
}

// respondWithFeedWrite keeps the write's status code even when the refresh after it failed
func respondWithFeedWrite(w http.ResponseWriter, statusCode int, result *entities.FeedWrite) {
	if result.RefreshErr != nil {
		respondWithJSON(w, statusCode, refreshFailedResponse{
			RefreshFailed: true,
			Error:         clientMessage(result.RefreshErr),
		})
		return
	}
	respondWithJSON(w, statusCode, newFeedResponse(result.Snapshot, "all"))
}

// ListApplicants handles GET /api/jobs/{id}/applications
func (h *ApplicationHandler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.service.ListApplicants(r.Context(), middleware.IdentityFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"applicants": applicants,
		"count":      len(applicants),
	})
}

// UpdateStatus handles PATCH /api/applications/{id}
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusRequest
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	applicants, err := h.service.UpdateStatus(r.Context(), middleware.IdentityFromContext(r.Context()), r.PathValue("id"), payload.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"applicants": applicants,
		"count":      len(applicants),
	})
}
