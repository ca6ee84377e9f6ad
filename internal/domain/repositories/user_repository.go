package repositories

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByIDs retrieves the users in the id set; unknown ids are skipped
	GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error)

	// UpdateProfile updates the editable profile fields
	UpdateProfile(ctx context.Context, id string, name, bio *string) error
}
