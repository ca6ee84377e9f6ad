package services

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/profplay/isbasi/backend/internal/application/loaders"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

const (
	employerMemoCache      = "employer_info"
	defaultEmployerMemoTTL = 5 * time.Minute
)

// ReviewCorrelator joins reviews onto feed rows and serves the employer info panel
type ReviewCorrelator struct {
	reviews repositories.ReviewRepository
	users   repositories.UserRepository
	memo    *expirable.LRU[string, *entities.EmployerInfo]
	limit   int
	metrics *observability.Metrics
}

// NewReviewCorrelator creates a correlator that memoizes up to memoSize employer panels,
// each listing at most reviewLimit reviews. metrics may be nil.
func NewReviewCorrelator(
	reviews repositories.ReviewRepository,
	users repositories.UserRepository,
	memoSize, reviewLimit int,
	memoTTL time.Duration,
	metrics *observability.Metrics,
) *ReviewCorrelator {
	if memoSize <= 0 {
		memoSize = 256
	}
	if reviewLimit <= 0 {
		reviewLimit = 10
	}
	if memoTTL <= 0 {
		memoTTL = defaultEmployerMemoTTL
	}
	return &ReviewCorrelator{
		reviews: reviews,
		users:   users,
		memo:    expirable.NewLRU[string, *entities.EmployerInfo](memoSize, nil, memoTTL),
		limit:   reviewLimit,
		metrics: metrics,
	}
}

// FindOwnReview returns the caller's review of counterpartID for jobID, or nil
func FindOwnReview(reviews []*entities.Review, jobID, counterpartID string) *entities.Review {
	for _, r := range reviews {
		if r != nil && r.JobID == jobID && r.RevieweeID == counterpartID {
			return r
		}
	}
	return nil
}

// Correlate fills in each row's own review of the job's employer and the employer's rating
func (c *ReviewCorrelator) Correlate(rows []entities.JobWithStatus, ownReviews []*entities.Review, employers map[string]*entities.User) {
	for i := range rows {
		job := rows[i].Job
		rows[i].MyReview = FindOwnReview(ownReviews, job.ID, job.EmployerID)
		if employer, ok := employers[job.EmployerID]; ok && employer != nil {
			rows[i].EmployerRating = employer.Rating
		}
	}
}

// EmployerInfo returns the employer's profile and newest reviews, each paired with its author.
// Results are memoized for the memo TTL. Forget only clears this process, so other
// replicas may serve a panel up to one TTL old after a new review.
func (c *ReviewCorrelator) EmployerInfo(ctx context.Context, identity entities.Identity, employerID string) (*entities.EmployerInfo, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to view employer details")
	}
	if employerID == "" {
		return nil, apperrors.NewValidationError("employer id is required")
	}

	if info, ok := c.memo.Get(employerID); ok {
		observability.RecordCacheHit(ctx, c.metrics, employerMemoCache)
		return info, nil
	}
	observability.RecordCacheMiss(ctx, c.metrics, employerMemoCache)

	ctx, span := observability.StartSpan(ctx, "ReviewCorrelator.EmployerInfo")
	defer span.End()

	employer, err := c.users.GetByID(ctx, employerID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	reviews, err := c.reviews.ListByReviewee(ctx, employerID, c.limit)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fetchError("failed to fetch employer reviews", err)
	}

	reviewerIDs := make([]string, len(reviews))
	for i, r := range reviews {
		reviewerIDs[i] = r.ReviewerID
	}
	reviewers, err := loaders.NewUserLoader(c.users).LoadMap(ctx, reviewerIDs)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fetchError("failed to fetch reviewer profiles", err)
	}

	info := &entities.EmployerInfo{
		Employer: employer,
		Reviews:  make([]entities.ReviewWithReviewer, 0, len(reviews)),
	}
	for _, r := range reviews {
		info.Reviews = append(info.Reviews, entities.ReviewWithReviewer{
			Review:   *r,
			Reviewer: reviewers[r.ReviewerID],
		})
	}

	c.memo.Add(employerID, info)
	return info, nil
}

// Forget drops the memoized panel for employerID
func (c *ReviewCorrelator) Forget(employerID string) {
	c.memo.Remove(employerID)
}
