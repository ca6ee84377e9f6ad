package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

// SnapshotHub fans feed states out to the streams watching each worker.
// Every subscriber holds at most one pending state; a newer state replaces an unread one.
// Sequenced states from a refresh that started before the last published result are dropped,
// so a slow refresh that read the backend before a write cannot overwrite a newer snapshot.
type SnapshotHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan entities.FeedState]struct{}
	settled     map[string]uint64
	seq         atomic.Uint64
}

// NewSnapshotHub creates an empty hub
func NewSnapshotHub() *SnapshotHub {
	return &SnapshotHub{
		subscribers: make(map[string]map[chan entities.FeedState]struct{}),
		settled:     make(map[string]uint64),
	}
}

// NextSeq hands out the sequence number for a refresh that is about to read the backend
func (h *SnapshotHub) NextSeq() uint64 {
	return h.seq.Add(1)
}

// Subscribe registers a stream for workerID. The channel is closed once ctx is done.
func (h *SnapshotHub) Subscribe(ctx context.Context, workerID string) <-chan entities.FeedState {
	ch := make(chan entities.FeedState, 1)

	h.mu.Lock()
	if h.subscribers[workerID] == nil {
		h.subscribers[workerID] = make(map[chan entities.FeedState]struct{})
	}
	h.subscribers[workerID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(workerID, ch)
	}()

	return ch
}

// Publish delivers state to every stream of workerID without blocking.
// It reports false when the state was superseded by a newer refresh and dropped.
func (h *SnapshotHub) Publish(workerID string, state entities.FeedState) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if state.Seq != 0 {
		if state.Seq < h.settled[workerID] {
			return false
		}
		if state.Terminal() && len(h.subscribers[workerID]) > 0 {
			h.settled[workerID] = state.Seq
		}
	}

	for ch := range h.subscribers[workerID] {
		select {
		case ch <- state:
			continue
		default:
		}
		// Drop the stale state, then retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
	return true
}

// HasSubscribers reports whether any stream is watching workerID
func (h *SnapshotHub) HasSubscribers(workerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[workerID]) > 0
}

func (h *SnapshotHub) remove(workerID string, ch chan entities.FeedState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[workerID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(h.subscribers, workerID)
		delete(h.settled, workerID)
	}
}
