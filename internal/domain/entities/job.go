package entities

import (
	"strings"
	"time"

	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// Job represents a posted work opportunity
type Job struct {
	ID          string     `json:"id" db:"id"`
	EmployerID  string     `json:"employer_id" db:"employer_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Location    string     `json:"location" db:"location"`
	DateStart   string     `json:"date_start" db:"date_start"`
	DateEnd     *string    `json:"date_end,omitempty" db:"date_end"`
	MinRating   *float64   `json:"min_rating,omitempty" db:"min_rating"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// EndDate returns the end date, or the start date when the end is absent or blank
func (j *Job) EndDate() string {
	if j.DateEnd != nil && strings.TrimSpace(*j.DateEnd) != "" {
		return *j.DateEnd
	}
	return j.DateStart
}

// Interval parses the job's dates into an inclusive range.
// The returned error is a PARSE AppError.
func (j *Job) Interval() (DateRange, error) {
	start, err := ParseDate(j.DateStart)
	if err != nil {
		return DateRange{}, apperrors.NewParseError("job "+j.ID+" has a malformed start date", err)
	}
	end, err := ParseDate(j.EndDate())
	if err != nil {
		return DateRange{}, apperrors.NewParseError("job "+j.ID+" has a malformed end date", err)
	}
	return DateRange{Start: start, End: end}, nil
}

// JobInput carries the fields an employer supplies when posting a job
type JobInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	DateStart   string   `json:"date_start"`
	DateEnd     *string  `json:"date_end,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
}

// Validate checks the input before it is sent to the backend
func (in *JobInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.NewValidationError("title is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return apperrors.NewValidationError("location is required")
	}
	start, err := ParseDate(in.DateStart)
	if err != nil {
		return apperrors.NewValidationError("date_start must be a yyyy-MM-dd date")
	}
	if in.DateEnd != nil && strings.TrimSpace(*in.DateEnd) != "" {
		end, err := ParseDate(*in.DateEnd)
		if err != nil {
			return apperrors.NewValidationError("date_end must be a yyyy-MM-dd date")
		}
		if end.Before(start) {
			return apperrors.NewValidationError("date_end must not be before date_start")
		}
	}
	if in.MinRating != nil && (*in.MinRating < 0 || *in.MinRating > 5) {
		return apperrors.NewValidationError("min_rating must be between 0 and 5")
	}
	return nil
}
