package repositories

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create inserts a new review
	Create(ctx context.Context, review *entities.Review) error

	// ListByReviewee retrieves the newest reviews about a user, newest first
	ListByReviewee(ctx context.Context, revieweeID string, limit int) ([]*entities.Review, error)

	// ListByReviewer retrieves every review a user has written
	ListByReviewer(ctx context.Context, reviewerID string) ([]*entities.Review, error)

	// ListByJobAndReviewer retrieves the reviews a user wrote for a job
	ListByJobAndReviewer(ctx context.Context, jobID, reviewerID string) ([]*entities.Review, error)
}
