package repositories

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// ApplicationRepository defines the interface for application data operations
type ApplicationRepository interface {
	// Create inserts a new application
	Create(ctx context.Context, application *entities.Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id string) (*entities.Application, error)

	// DeleteByJobAndWorker withdraws a worker's application to a job
	DeleteByJobAndWorker(ctx context.Context, jobID, workerID string) error

	// UpdateStatus sets the status of an application
	UpdateStatus(ctx context.Context, id string, status entities.ApplicationStatus) error

	// ListByWorker retrieves all applications made by a worker
	ListByWorker(ctx context.Context, workerID string) ([]*entities.Application, error)

	// ListByJob retrieves all applications made to a job
	ListByJob(ctx context.Context, jobID string) ([]*entities.Application, error)
}
