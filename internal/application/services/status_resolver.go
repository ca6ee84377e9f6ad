package services

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

// ResolveStatuses indexes a worker's applications by job id.
// When a job has more than one application the later one in backend order wins.
func ResolveStatuses(ctx context.Context, applications []*entities.Application) map[string]entities.ApplicationStatus {
	statuses := make(map[string]entities.ApplicationStatus, len(applications))
	for _, app := range applications {
		if app == nil {
			continue
		}
		if prev, ok := statuses[app.JobID]; ok {
			observability.LoggerFromContext(ctx).Warn().
				Str("job_id", app.JobID).
				Str("worker_id", app.WorkerID).
				Str("previous_status", string(prev)).
				Str("status", string(app.Status)).
				Msg("duplicate application for job, keeping the last one")
		}
		statuses[app.JobID] = app.Status
	}
	return statuses
}

// statusFor returns a pointer to the job's status, or nil when the worker never applied
func statusFor(statuses map[string]entities.ApplicationStatus, jobID string) *entities.ApplicationStatus {
	status, ok := statuses[jobID]
	if !ok {
		return nil
	}
	return &status
}
