package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/profplay/isbasi/backend/internal/application/services"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

func TestConflictDetector_Detect(t *testing.T) {
	ctx := context.Background()
	detector := services.NewConflictDetector()
	approved := entities.ApplicationStatusApproved
	pending := entities.ApplicationStatusPending

	tests := []struct {
		name      string
		jobs      []*entities.Job
		statuses  map[string]entities.ApplicationStatus
		conflicts map[string]bool
	}{
		{
			name: "overlapping days conflict",
			jobs: []*entities.Job{
				newJob("candidate", "e-1", "2025-10-20", "2025-10-22"),
				newJob("booked", "e-2", "2025-10-21", "2025-10-23"),
			},
			statuses:  map[string]entities.ApplicationStatus{"booked": approved},
			conflicts: map[string]bool{"candidate": true},
		},
		{
			name: "adjacent days do not conflict",
			jobs: []*entities.Job{
				newJob("candidate", "e-1", "2025-10-20", "2025-10-20"),
				newJob("booked", "e-2", "2025-10-21", "2025-10-25"),
			},
			statuses:  map[string]entities.ApplicationStatus{"booked": approved},
			conflicts: map[string]bool{},
		},
		{
			name: "sharing a boundary day conflicts",
			jobs: []*entities.Job{
				newJob("candidate", "e-1", "2025-10-25", ""),
				newJob("booked", "e-2", "2025-10-21", "2025-10-25"),
			},
			statuses:  map[string]entities.ApplicationStatus{"booked": approved},
			conflicts: map[string]bool{"candidate": true},
		},
		{
			name: "approved jobs never conflict with each other",
			jobs: []*entities.Job{
				newJob("a", "e-1", "2025-10-20", "2025-10-22"),
				newJob("b", "e-2", "2025-10-21", "2025-10-23"),
			},
			statuses:  map[string]entities.ApplicationStatus{"a": approved, "b": approved},
			conflicts: map[string]bool{},
		},
		{
			name: "pending jobs do not block others",
			jobs: []*entities.Job{
				newJob("a", "e-1", "2025-10-20", "2025-10-22"),
				newJob("b", "e-2", "2025-10-21", "2025-10-23"),
			},
			statuses:  map[string]entities.ApplicationStatus{"a": pending, "b": pending},
			conflicts: map[string]bool{},
		},
		{
			name: "malformed dates never overlap",
			jobs: []*entities.Job{
				newJob("broken", "e-1", "20/10/2025", ""),
				newJob("booked", "e-2", "2025-10-21", "not-a-date"),
				newJob("candidate", "e-3", "2025-10-21", ""),
			},
			statuses:  map[string]entities.ApplicationStatus{"booked": approved},
			conflicts: map[string]bool{},
		},
		{
			name: "jobs the worker never applied to can conflict",
			jobs: []*entities.Job{
				newJob("open", "e-1", "2025-11-01", "2025-11-03"),
				newJob("booked", "e-2", "2025-11-03", "2025-11-04"),
			},
			statuses:  map[string]entities.ApplicationStatus{"booked": approved},
			conflicts: map[string]bool{"open": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := detector.Detect(ctx, tt.jobs, tt.statuses)
			assert.Equal(t, tt.conflicts, conflicts)
		})
	}
}
