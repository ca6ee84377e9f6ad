package providers

import (
	"context"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to feed events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.FeedEvent) error

	// Subscribe subscribes to events on a channel until ctx ends
	Subscribe(ctx context.Context, channel string) (<-chan *entities.FeedEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelWorkerPrefix is the prefix for per-worker feed channels
const EventChannelWorkerPrefix = "feed:worker:"

// GetWorkerChannel returns the channel name for a specific worker's feed
func GetWorkerChannel(workerID string) string {
	return EventChannelWorkerPrefix + workerID
}
