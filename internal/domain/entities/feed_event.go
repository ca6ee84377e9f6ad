package entities

import (
	"time"

	"github.com/google/uuid"
)

// FeedEventType represents what changed for a worker's feed
type FeedEventType string

const (
	FeedEventApplicationCreated       FeedEventType = "application_created"
	FeedEventApplicationCancelled     FeedEventType = "application_cancelled"
	FeedEventApplicationStatusChanged FeedEventType = "application_status_changed"
	FeedEventReviewSubmitted          FeedEventType = "review_submitted"
)

// FeedEvent tells feed watchers that a worker's derived state must be recomputed
type FeedEvent struct {
	ID        string        `json:"id"`
	EventType FeedEventType `json:"event_type"`
	WorkerID  string        `json:"worker_id"`
	JobID     string        `json:"job_id"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewFeedEvent creates a new feed event
func NewFeedEvent(eventType FeedEventType, workerID, jobID string) *FeedEvent {
	return &FeedEvent{
		ID:        uuid.New().String(),
		EventType: eventType,
		WorkerID:  workerID,
		JobID:     jobID,
		Timestamp: time.Now().UTC(),
	}
}
