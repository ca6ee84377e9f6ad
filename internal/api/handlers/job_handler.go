package handlers

import (
	"context"
	"net/http"

	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// JobService defines the job operations used by the handler
type JobService interface {
	Create(ctx context.Context, identity entities.Identity, input entities.JobInput) (*entities.Job, error)
	ListByEmployer(ctx context.Context, identity entities.Identity, employerID string) ([]entities.JobWithStatus, error)
	ListByDateRange(ctx context.Context, identity entities.Identity, from, to string) ([]entities.JobWithStatus, error)
}

// JobHandler handles job posting and listings
type JobHandler struct {
	service JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(service JobService) *JobHandler {
	return &JobHandler{service: service}
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var input entities.JobInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	job, err := h.service.Create(r.Context(), middleware.IdentityFromContext(r.Context()), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, job)
}

// ListJobs handles GET /api/jobs?employer_id=&from=&to=
// A date range takes precedence; otherwise the employer's jobs are listed.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	identity := middleware.IdentityFromContext(r.Context())
	from, to := query.Get("from"), query.Get("to")

	var (
		rows []entities.JobWithStatus
		err  error
	)
	switch {
	case from != "" || to != "":
		if from == "" || to == "" {
			respondWithError(w, http.StatusBadRequest, "from and to must be given together")
			return
		}
		rows, err = h.service.ListByDateRange(r.Context(), identity, from, to)
	default:
		rows, err = h.service.ListByEmployer(r.Context(), identity, query.Get("employer_id"))
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  rows,
		"count": len(rows),
	})
}
