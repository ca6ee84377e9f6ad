package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

func statusPtr(s entities.ApplicationStatus) *entities.ApplicationStatus { return &s }

func TestJobWithStatus_Lifecycle(t *testing.T) {
	today := time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)
	past := &entities.Job{ID: "past", DateStart: "2025-10-20", DateEnd: strPtr("2025-10-25")}
	future := &entities.Job{ID: "future", DateStart: "2025-11-01"}

	tests := []struct {
		name       string
		row        entities.JobWithStatus
		lifecycle  entities.JobLifecycle
		reviewHint entities.ReviewAction
	}{
		{"no application", entities.JobWithStatus{Job: future}, entities.JobLifecycleNoApplication, entities.ReviewActionNone},
		{"pending upcoming", entities.JobWithStatus{Job: future, ApplicationStatus: statusPtr(entities.ApplicationStatusPending)}, entities.JobLifecyclePending, entities.ReviewActionNone},
		{"pending expired can be rated", entities.JobWithStatus{Job: past, ApplicationStatus: statusPtr(entities.ApplicationStatusPending)}, entities.JobLifecyclePending, entities.ReviewActionRate},
		{"approved upcoming", entities.JobWithStatus{Job: future, ApplicationStatus: statusPtr(entities.ApplicationStatusApproved)}, entities.JobLifecycleApproved, entities.ReviewActionNone},
		{"approved expired", entities.JobWithStatus{Job: past, ApplicationStatus: statusPtr(entities.ApplicationStatusApproved)}, entities.JobLifecycleRatableApproved, entities.ReviewActionRate},
		{"rated", entities.JobWithStatus{Job: past, ApplicationStatus: statusPtr(entities.ApplicationStatusApproved), MyReview: &entities.Review{ID: "r1", Score: 4}}, entities.JobLifecycleRated, entities.ReviewActionView},
		{"rejected", entities.JobWithStatus{Job: past, ApplicationStatus: statusPtr(entities.ApplicationStatusRejected)}, entities.JobLifecycleRejected, entities.ReviewActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lifecycle, tt.row.Lifecycle(today))
			assert.Equal(t, tt.reviewHint, tt.row.ReviewAction(today))
		})
	}
}

func TestJobWithStatus_Expired(t *testing.T) {
	today := time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)

	expired, err := (&entities.JobWithStatus{Job: &entities.Job{ID: "a", DateStart: "2025-10-20", DateEnd: strPtr("2025-10-25")}}).Expired(today)
	assert.NoError(t, err)
	assert.True(t, expired)

	endsToday, err := (&entities.JobWithStatus{Job: &entities.Job{ID: "b", DateStart: "2025-10-26"}}).Expired(today)
	assert.NoError(t, err)
	assert.False(t, endsToday)

	malformed, err := (&entities.JobWithStatus{Job: &entities.Job{ID: "c", DateStart: "garbage"}}).Expired(today)
	assert.Error(t, err)
	assert.False(t, malformed)
}
