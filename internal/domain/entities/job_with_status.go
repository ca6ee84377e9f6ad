package entities

import "time"

// JobLifecycle is where a job stands from a single worker's perspective
type JobLifecycle string

const (
	JobLifecycleNoApplication   JobLifecycle = "no_application"
	JobLifecyclePending         JobLifecycle = "pending"
	JobLifecycleApproved        JobLifecycle = "approved"
	JobLifecycleRatableApproved JobLifecycle = "ratable_approved"
	JobLifecycleRated           JobLifecycle = "rated"
	JobLifecycleRejected        JobLifecycle = "rejected"
)

// ReviewAction is the rating affordance a job card offers
type ReviewAction string

const (
	ReviewActionNone ReviewAction = "none"
	ReviewActionRate ReviewAction = "rate"
	ReviewActionView ReviewAction = "view"
)

// JobWithStatus is a job joined with the viewing worker's application state.
// It is rebuilt on every refresh and never persisted.
type JobWithStatus struct {
	Job               *Job               `json:"job"`
	ApplicationStatus *ApplicationStatus `json:"application_status"`
	HasConflict       bool               `json:"has_conflict"`
	EmployerRating    *float64           `json:"employer_rating,omitempty"`
	MyReview          *Review            `json:"my_review,omitempty"`
}

// StatusIs reports whether the worker's application has the given status
func (j *JobWithStatus) StatusIs(status ApplicationStatus) bool {
	return j.ApplicationStatus != nil && *j.ApplicationStatus == status
}

// Expired reports whether today is after the job's end date.
// A malformed end date yields false together with the PARSE error.
func (j *JobWithStatus) Expired(today time.Time) (bool, error) {
	interval, err := j.Job.Interval()
	if err != nil {
		return false, err
	}
	return today.After(interval.End), nil
}

// Lifecycle derives the job's state for the worker on the given day
func (j *JobWithStatus) Lifecycle(today time.Time) JobLifecycle {
	if j.MyReview != nil {
		return JobLifecycleRated
	}
	if j.ApplicationStatus == nil {
		return JobLifecycleNoApplication
	}
	switch *j.ApplicationStatus {
	case ApplicationStatusRejected:
		return JobLifecycleRejected
	case ApplicationStatusApproved:
		if expired, _ := j.Expired(today); expired {
			return JobLifecycleRatableApproved
		}
		return JobLifecycleApproved
	default:
		return JobLifecyclePending
	}
}

// ReviewAction tells the client whether to offer "rate now", "view my rating" or nothing.
// Expired jobs whose application is approved or still pending can be rated.
func (j *JobWithStatus) ReviewAction(today time.Time) ReviewAction {
	if j.MyReview != nil {
		return ReviewActionView
	}
	expired, _ := j.Expired(today)
	if expired && (j.StatusIs(ApplicationStatusApproved) || j.StatusIs(ApplicationStatusPending)) {
		return ReviewActionRate
	}
	return ReviewActionNone
}
