package repositories

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// JobRepository defines the interface for job data operations
type JobRepository interface {
	// Create inserts a new job
	Create(ctx context.Context, job *entities.Job) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id string) (*entities.Job, error)

	// List retrieves jobs matching the filter, ordered by start date ascending
	List(ctx context.Context, filter JobFilter) ([]*entities.Job, error)
}

// JobFilter narrows a job listing. Zero values mean "no constraint".
// From and To bound the start date inclusively, as yyyy-MM-dd strings.
type JobFilter struct {
	EmployerID string
	From       string
	To         string
}
