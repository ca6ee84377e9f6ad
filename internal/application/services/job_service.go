package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// JobService handles posting jobs and the employer-side listings
type JobService struct {
	jobs  repositories.JobRepository
	clock providers.Clock
}

// NewJobService creates a new job service
func NewJobService(jobs repositories.JobRepository, clock providers.Clock) *JobService {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	return &JobService{jobs: jobs, clock: clock}
}

// Create posts a job on behalf of the calling employer
func (s *JobService) Create(ctx context.Context, identity entities.Identity, input entities.JobInput) (*entities.Job, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to post a job")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var dateEnd *string
	if input.DateEnd != nil && strings.TrimSpace(*input.DateEnd) != "" {
		end := strings.TrimSpace(*input.DateEnd)
		dateEnd = &end
	}

	createdAt := s.clock.Now().UTC()
	job := &entities.Job{
		ID:          uuid.New().String(),
		EmployerID:  identity.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		DateStart:   strings.TrimSpace(input.DateStart),
		DateEnd:     dateEnd,
		MinRating:   input.MinRating,
		CreatedAt:   &createdAt,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, asWriteError("failed to create job", err)
	}
	return job, nil
}

// ListByEmployer lists an employer's jobs, the caller's own when employerID is empty
func (s *JobService) ListByEmployer(ctx context.Context, identity entities.Identity, employerID string) ([]entities.JobWithStatus, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to list jobs")
	}
	if employerID == "" {
		employerID = identity.UserID
	}
	return s.list(ctx, repositories.JobFilter{EmployerID: employerID})
}

// ListByDateRange lists jobs starting between from and to inclusive
func (s *JobService) ListByDateRange(ctx context.Context, identity entities.Identity, from, to string) ([]entities.JobWithStatus, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to list jobs")
	}
	start, err := entities.ParseDate(from)
	if err != nil {
		return nil, apperrors.NewValidationError("from must be a yyyy-MM-dd date")
	}
	end, err := entities.ParseDate(to)
	if err != nil {
		return nil, apperrors.NewValidationError("to must be a yyyy-MM-dd date")
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("to must not be before from")
	}
	return s.list(ctx, repositories.JobFilter{From: entities.FormatDate(start), To: entities.FormatDate(end)})
}

func (s *JobService) list(ctx context.Context, filter repositories.JobFilter) ([]entities.JobWithStatus, error) {
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fetchError("failed to list jobs", err)
	}
	rows := make([]entities.JobWithStatus, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, entities.JobWithStatus{Job: job})
	}
	return rows, nil
}
