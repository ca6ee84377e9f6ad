package handlers

import (
	"context"
	"net/http"

	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	Submit(ctx context.Context, identity entities.Identity, input entities.ReviewInput) (*entities.Review, error)
}

// EmployerInfoService serves the employer panel
type EmployerInfoService interface {
	EmployerInfo(ctx context.Context, identity entities.Identity, employerID string) (*entities.EmployerInfo, error)
}

// ReviewHandler handles ratings and the employer panel built from them
type ReviewHandler struct {
	reviews   ReviewService
	employers EmployerInfoService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewService, employers EmployerInfoService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, employers: employers}
}

// SubmitReview handles POST /api/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var input entities.ReviewInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	review, err := h.reviews.Submit(r.Context(), middleware.IdentityFromContext(r.Context()), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// GetEmployer handles GET /api/employers/{id}
func (h *ReviewHandler) GetEmployer(w http.ResponseWriter, r *http.Request) {
	info, err := h.employers.EmployerInfo(r.Context(), middleware.IdentityFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}
