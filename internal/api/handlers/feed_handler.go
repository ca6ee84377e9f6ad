package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

const defaultHeartbeat = 30 * time.Second

// FeedService defines the feed operations used by the handler
type FeedService interface {
	Refresh(ctx context.Context, identity entities.Identity) (*entities.FeedSnapshot, error)
	Watch(ctx context.Context, identity entities.Identity) (<-chan entities.FeedState, error)
}

// FeedHandler serves the worker's job feed, once or as a stream
type FeedHandler struct {
	service   FeedService
	heartbeat time.Duration
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service FeedService) *FeedHandler {
	return &FeedHandler{service: service, heartbeat: defaultHeartbeat}
}

// WithHeartbeat overrides the stream keep-alive interval
func (h *FeedHandler) WithHeartbeat(interval time.Duration) *FeedHandler {
	if interval > 0 {
		h.heartbeat = interval
	}
	return h
}

// jobCard is one feed row with the per-day derivations the client renders
type jobCard struct {
	entities.JobWithStatus
	Lifecycle    entities.JobLifecycle `json:"lifecycle"`
	ReviewAction entities.ReviewAction `json:"review_action"`
}

type feedResponse struct {
	WorkerID    string    `json:"worker_id"`
	Today       string    `json:"today"`
	GeneratedAt time.Time `json:"generated_at"`
	View        string    `json:"view"`
	Jobs        []jobCard `json:"jobs"`
}

// GetFeed handles GET /api/feed?view=active|archived|all
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "active"
	}
	if view != "active" && view != "archived" && view != "all" {
		respondWithError(w, http.StatusBadRequest, "view must be active, archived or all")
		return
	}

	snapshot, err := h.service.Refresh(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, newFeedResponse(snapshot, view))
}

// StreamFeed handles GET /api/feed/stream as Server-Sent Events.
// Each feed state is sent as an event named after its kind.
func (h *FeedHandler) StreamFeed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	identity := middleware.IdentityFromContext(ctx)
	states, err := h.service.Watch(ctx, identity)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	logger := observability.LoggerFromContext(ctx).With().Str("worker_id", identity.UserID).Logger()
	logger.Debug().Msg("feed stream opened")

	h.sendEvent(w, "connected", map[string]interface{}{
		"worker_id": identity.UserID,
		"timestamp": time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("feed stream closed")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case state, ok := <-states:
			if !ok {
				return
			}
			h.sendState(w, logger, state)
			flusher.Flush()
		}
	}
}

func (h *FeedHandler) sendState(w http.ResponseWriter, logger zerolog.Logger, state entities.FeedState) {
	switch state.Kind {
	case entities.FeedStateSuccess:
		h.sendEvent(w, string(state.Kind), newFeedResponse(state.Snapshot, "all"))
	case entities.FeedStateError:
		message := "feed refresh failed"
		if state.Err != nil {
			logger.Warn().Err(state.Err).Msg("feed refresh failed")
			message = clientMessage(state.Err)
		}
		h.sendEvent(w, string(state.Kind), map[string]string{"error": message})
	default:
		h.sendEvent(w, string(state.Kind), struct{}{})
	}
}

func (h *FeedHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

func newFeedResponse(snapshot *entities.FeedSnapshot, view string) feedResponse {
	rows := snapshot.Active
	switch view {
	case "archived":
		rows = snapshot.Archived
	case "all":
		rows = snapshot.Jobs
	}

	cards := make([]jobCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, jobCard{
			JobWithStatus: row,
			Lifecycle:     row.Lifecycle(snapshot.Today),
			ReviewAction:  row.ReviewAction(snapshot.Today),
		})
	}

	return feedResponse{
		WorkerID:    snapshot.WorkerID,
		Today:       entities.FormatDate(snapshot.Today),
		GeneratedAt: snapshot.GeneratedAt,
		View:        view,
		Jobs:        cards,
	}
}
