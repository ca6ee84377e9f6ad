package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// ReviewService handles rating a counterpart after a job
type ReviewService struct {
	reviews    repositories.ReviewRepository
	correlator *ReviewCorrelator
	feed       *JobFeedService
	clock      providers.Clock
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, correlator *ReviewCorrelator, feed *JobFeedService, clock providers.Clock) *ReviewService {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	return &ReviewService{
		reviews:    reviews,
		correlator: correlator,
		feed:       feed,
		clock:      clock,
	}
}

// Submit stores the caller's review. A second review of the same counterpart for the
// same job is a conflict. The reviewee's cached panel is dropped and the caller's feed
// is told to pick up the new review.
func (s *ReviewService) Submit(ctx context.Context, identity entities.Identity, input entities.ReviewInput) (*entities.Review, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to submit a review")
	}
	if err := input.Validate(identity.UserID); err != nil {
		return nil, err
	}

	existing, err := s.reviews.ListByJobAndReviewer(ctx, input.JobID, identity.UserID)
	if err != nil {
		return nil, fetchError("failed to check existing reviews", err)
	}
	if FindOwnReview(existing, input.JobID, input.RevieweeID) != nil {
		return nil, apperrors.NewConflictError("you have already rated this user for this job")
	}

	createdAt := s.clock.Now().UTC()
	review := &entities.Review{
		ID:         uuid.New().String(),
		JobID:      input.JobID,
		ReviewerID: identity.UserID,
		RevieweeID: input.RevieweeID,
		Score:      input.Score,
		Comment:    input.Comment,
		CreatedAt:  &createdAt,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, asWriteError("failed to submit review", err)
	}

	s.correlator.Forget(input.RevieweeID)

	event := entities.NewFeedEvent(entities.FeedEventReviewSubmitted, identity.UserID, input.JobID)
	if err := s.feed.Notify(ctx, identity.UserID, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("reviewer_id", identity.UserID).
			Msg("failed to notify feed of new review")
	}

	return review, nil
}
