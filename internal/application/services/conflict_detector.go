package services

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

// ConflictDetector flags jobs whose dates collide with a job the worker is already approved for
type ConflictDetector struct{}

// NewConflictDetector creates a new conflict detector
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

type parsedJob struct {
	job      *entities.Job
	interval entities.DateRange
	ok       bool
}

// Detect returns the ids of conflicting jobs. Approved jobs never conflict.
// A job with unparseable dates overlaps nothing; the bad record is logged once.
func (d *ConflictDetector) Detect(ctx context.Context, jobs []*entities.Job, statuses map[string]entities.ApplicationStatus) map[string]bool {
	logger := observability.LoggerFromContext(ctx)

	parsed := make([]parsedJob, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		interval, err := job.Interval()
		if err != nil {
			logger.Warn().Err(err).Str("job_id", job.ID).Msg("skipping job with malformed dates in conflict check")
		}
		parsed = append(parsed, parsedJob{job: job, interval: interval, ok: err == nil})
	}

	approved := make([]parsedJob, 0)
	for _, p := range parsed {
		if p.ok && statuses[p.job.ID] == entities.ApplicationStatusApproved {
			approved = append(approved, p)
		}
	}

	conflicts := make(map[string]bool)
	if len(approved) == 0 {
		return conflicts
	}

	for _, p := range parsed {
		if !p.ok || statuses[p.job.ID] == entities.ApplicationStatusApproved {
			continue
		}
		for _, a := range approved {
			if a.job.ID == p.job.ID {
				continue
			}
			if p.interval.Overlaps(a.interval) {
				conflicts[p.job.ID] = true
				break
			}
		}
	}
	return conflicts
}
