package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

var reviewColumns = []interface{}{"id", "job_id", "reviewer_id", "reviewee_id", "score", "comment", "created_at"}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review. A second review for the same
// (job, reviewer, reviewee) fails the backend's unique constraint.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	record := goqu.Record{
		"id":          review.ID,
		"job_id":      review.JobID,
		"reviewer_id": review.ReviewerID,
		"reviewee_id": review.RevieweeID,
		"score":       review.Score,
		"comment":     nullString(review.Comment),
	}
	if review.CreatedAt != nil {
		record["created_at"] = *review.CreatedAt
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return writeError("failed to create review", "already reviewed this user for this job", err)
	}

	return nil
}

// ListByReviewee retrieves the newest reviews about a user
func (a *ReviewAdapter) ListByReviewee(ctx context.Context, revieweeID string, limit int) ([]*entities.Review, error) {
	ds := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"reviewee_id": revieweeID}).
		Order(goqu.I("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	return a.list(ctx, ds)
}

// ListByReviewer retrieves every review a user has written
func (a *ReviewAdapter) ListByReviewer(ctx context.Context, reviewerID string) ([]*entities.Review, error) {
	ds := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"reviewer_id": reviewerID})
	return a.list(ctx, ds)
}

// ListByJobAndReviewer retrieves the reviews a user wrote for a job
func (a *ReviewAdapter) ListByJobAndReviewer(ctx context.Context, jobID, reviewerID string) ([]*entities.Review, error) {
	ds := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"job_id": jobID, "reviewer_id": reviewerID})
	return a.list(ctx, ds)
}

func (a *ReviewAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Review, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := make([]*entities.Review, 0)
	for rows.Next() {
		review := &entities.Review{}
		var comment sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(
			&review.ID,
			&review.JobID,
			&review.ReviewerID,
			&review.RevieweeID,
			&review.Score,
			&comment,
			&createdAt,
		); err != nil {
			return nil, apperrors.NewFetchError("failed to scan review", err)
		}

		review.Comment = stringPtr(comment)
		if createdAt.Valid {
			t := createdAt.Time
			review.CreatedAt = &t
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewFetchError("failed to iterate reviews", err)
	}

	return reviews, nil
}
