package entities

import (
	"strings"
	"time"

	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// Review is a 1-5 score plus optional comment left by one party about another after a job
type Review struct {
	ID         string     `json:"id" db:"id"`
	JobID      string     `json:"job_id" db:"job_id"`
	ReviewerID string     `json:"reviewer_id" db:"reviewer_id"`
	RevieweeID string     `json:"reviewee_id" db:"reviewee_id"`
	Score      int        `json:"score" db:"score"`
	Comment    *string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// ReviewWithReviewer is a review together with its author's profile
type ReviewWithReviewer struct {
	Review
	Reviewer *User `json:"reviewer,omitempty"`
}

// ReviewInput carries what a user submits when rating a counterpart
type ReviewInput struct {
	JobID      string  `json:"job_id"`
	RevieweeID string  `json:"reviewee_id"`
	Score      int     `json:"score"`
	Comment    *string `json:"comment,omitempty"`
}

// Validate checks the input for the given reviewer
func (in *ReviewInput) Validate(reviewerID string) error {
	if strings.TrimSpace(in.JobID) == "" {
		return apperrors.NewValidationError("job_id is required")
	}
	if strings.TrimSpace(in.RevieweeID) == "" {
		return apperrors.NewValidationError("reviewee_id is required")
	}
	if in.RevieweeID == reviewerID {
		return apperrors.NewValidationError("cannot review yourself")
	}
	if in.Score < 1 || in.Score > 5 {
		return apperrors.NewValidationError("score must be between 1 and 5")
	}
	return nil
}
