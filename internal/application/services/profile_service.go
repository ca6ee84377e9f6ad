package services

import (
	"context"
	"strings"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// ProfileService reads and edits the caller's own profile
type ProfileService struct {
	users repositories.UserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(users repositories.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Get returns the caller's profile
func (s *ProfileService) Get(ctx context.Context, identity entities.Identity) (*entities.User, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to view your profile")
	}
	return s.users.GetByID(ctx, identity.UserID)
}

// Update changes the caller's name and/or bio and returns the stored profile
func (s *ProfileService) Update(ctx context.Context, identity entities.Identity, name, bio *string) (*entities.User, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to edit your profile")
	}
	if name == nil && bio == nil {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, apperrors.NewValidationError("name cannot be blank")
	}

	if err := s.users.UpdateProfile(ctx, identity.UserID, name, bio); err != nil {
		return nil, asWriteError("failed to update profile", err)
	}
	return s.users.GetByID(ctx, identity.UserID)
}
