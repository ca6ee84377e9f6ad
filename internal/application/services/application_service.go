package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/profplay/isbasi/backend/internal/application/loaders"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// ApplicationService handles applying to jobs and reviewing applicants
type ApplicationService struct {
	applications repositories.ApplicationRepository
	jobs         repositories.JobRepository
	users        repositories.UserRepository
	feed         *JobFeedService
}

// NewApplicationService creates a new application service
func NewApplicationService(
	applications repositories.ApplicationRepository,
	jobs repositories.JobRepository,
	users repositories.UserRepository,
	feed *JobFeedService,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		jobs:         jobs,
		users:        users,
		feed:         feed,
	}
}

// Apply submits a pending application for the caller and returns the refreshed feed.
// Once the application is stored, a failed refresh is reported on the result, not as an error.
func (s *ApplicationService) Apply(ctx context.Context, identity entities.Identity, jobID string) (*entities.FeedWrite, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to apply for jobs")
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, apperrors.NewValidationError("job id is required")
	}

	application := &entities.Application{
		ID:       uuid.New().String(),
		JobID:    jobID,
		WorkerID: identity.UserID,
		Status:   entities.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, asWriteError("failed to apply for job", err)
	}

	s.broadcast(ctx, identity.UserID, entities.NewFeedEvent(entities.FeedEventApplicationCreated, identity.UserID, jobID))
	return s.refreshAfterWrite(ctx, identity)
}

// Cancel withdraws the caller's application and returns the refreshed feed, like Apply
func (s *ApplicationService) Cancel(ctx context.Context, identity entities.Identity, jobID string) (*entities.FeedWrite, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to cancel applications")
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, apperrors.NewValidationError("job id is required")
	}

	if err := s.applications.DeleteByJobAndWorker(ctx, jobID, identity.UserID); err != nil {
		return nil, asWriteError("failed to cancel application", err)
	}

	s.broadcast(ctx, identity.UserID, entities.NewFeedEvent(entities.FeedEventApplicationCancelled, identity.UserID, jobID))
	return s.refreshAfterWrite(ctx, identity)
}

// UpdateStatus approves or rejects an application to one of the caller's jobs,
// notifies the applicant's feed and returns the job's refreshed applicant list.
func (s *ApplicationService) UpdateStatus(ctx context.Context, identity entities.Identity, applicationID string, status entities.ApplicationStatus) ([]entities.Applicant, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to manage applicants")
	}
	if status != entities.ApplicationStatusApproved && status != entities.ApplicationStatusRejected {
		return nil, apperrors.NewValidationError("status must be approved or rejected")
	}

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedJob(ctx, identity, application.JobID); err != nil {
		return nil, err
	}

	if err := s.applications.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, asWriteError("failed to update application status", err)
	}

	event := entities.NewFeedEvent(entities.FeedEventApplicationStatusChanged, application.WorkerID, application.JobID)
	if err := s.feed.Notify(ctx, application.WorkerID, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("worker_id", application.WorkerID).
			Msg("failed to notify worker feed of status change")
	}

	return s.ListApplicants(ctx, identity, application.JobID)
}

// ListApplicants returns the applications to one of the caller's jobs with the workers' profiles
func (s *ApplicationService) ListApplicants(ctx context.Context, identity entities.Identity, jobID string) ([]entities.Applicant, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to view applicants")
	}
	if _, err := s.ownedJob(ctx, identity, jobID); err != nil {
		return nil, err
	}

	applications, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	workerIDs := make([]string, len(applications))
	for i, app := range applications {
		workerIDs[i] = app.WorkerID
	}
	workers, err := loaders.NewUserLoader(s.users).LoadMap(ctx, workerIDs)
	if err != nil {
		return nil, fetchError("failed to fetch applicant profiles", err)
	}

	applicants := make([]entities.Applicant, 0, len(applications))
	for _, app := range applications {
		applicants = append(applicants, entities.Applicant{
			Application: app,
			Worker:      workers[app.WorkerID],
		})
	}
	return applicants, nil
}

func (s *ApplicationService) ownedJob(ctx context.Context, identity entities.Identity, jobID string) (*entities.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, apperrors.NewValidationError("job id is required")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != identity.UserID {
		return nil, apperrors.NewForbiddenError("only the job's employer can manage its applicants")
	}
	return job, nil
}

func (s *ApplicationService) refreshAfterWrite(ctx context.Context, identity entities.Identity) (*entities.FeedWrite, error) {
	snapshot, err := s.feed.Refresh(ctx, identity)
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("worker_id", identity.UserID).
			Msg("write applied but feed refresh failed")
		return &entities.FeedWrite{RefreshErr: err}, nil
	}
	return &entities.FeedWrite{Snapshot: snapshot}, nil
}

func (s *ApplicationService) broadcast(ctx context.Context, workerID string, event *entities.FeedEvent) {
	if err := s.feed.Broadcast(ctx, workerID, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("worker_id", workerID).
			Str("event_type", string(event.EventType)).
			Msg("failed to broadcast feed event")
	}
}

// asWriteError keeps typed errors from the repository and wraps anything else
func asWriteError(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewWriteError(message, err)
}
