package services

import (
	"context"
	"time"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

// ArchiveClassifier splits feed rows into active and archived
type ArchiveClassifier struct {
	clock providers.Clock
	loc   *time.Location
}

// NewArchiveClassifier creates a classifier whose "today" is the clock's date in loc
func NewArchiveClassifier(clock providers.Clock, loc *time.Location) *ArchiveClassifier {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ArchiveClassifier{clock: clock, loc: loc}
}

// Today returns the current calendar date as a UTC midnight
func (c *ArchiveClassifier) Today() time.Time {
	return entities.CalendarDate(c.clock.Now(), c.loc)
}

// IsActive reports whether a row belongs in the active list:
// not expired, not rejected and not in conflict with an approved job.
func (c *ArchiveClassifier) IsActive(ctx context.Context, row entities.JobWithStatus, today time.Time) bool {
	expired, err := row.Expired(today)
	if err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).
			Str("job_id", row.Job.ID).
			Msg("treating job with malformed end date as not expired")
	}
	return !expired && !row.StatusIs(entities.ApplicationStatusRejected) && !row.HasConflict
}

// Classify partitions rows, preserving their order
func (c *ArchiveClassifier) Classify(ctx context.Context, rows []entities.JobWithStatus, today time.Time) (active, archived []entities.JobWithStatus) {
	active = make([]entities.JobWithStatus, 0, len(rows))
	archived = make([]entities.JobWithStatus, 0)
	for _, row := range rows {
		if c.IsActive(ctx, row, today) {
			active = append(active, row)
		} else {
			archived = append(archived, row)
		}
	}
	return active, archived
}
