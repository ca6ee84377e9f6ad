package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// JobFeedService derives worker feeds and keeps their streams current
type JobFeedService struct {
	fetcher        *FeedFetcher
	detector       *ConflictDetector
	classifier     *ArchiveClassifier
	correlator     *ReviewCorrelator
	hub            *SnapshotHub
	eventBus       providers.EventBus
	clock          providers.Clock
	metrics        *observability.Metrics
	refreshTimeout time.Duration
}

// JobFeedOption configures optional JobFeedService collaborators
type JobFeedOption func(*JobFeedService)

// WithEventBus routes Notify through bus so that every instance sees feed events
func WithEventBus(bus providers.EventBus) JobFeedOption {
	return func(s *JobFeedService) { s.eventBus = bus }
}

// WithMetrics records refresh metrics
func WithMetrics(metrics *observability.Metrics) JobFeedOption {
	return func(s *JobFeedService) { s.metrics = metrics }
}

// WithRefreshTimeout bounds each refresh
func WithRefreshTimeout(d time.Duration) JobFeedOption {
	return func(s *JobFeedService) { s.refreshTimeout = d }
}

// WithClock overrides the clock used to stamp snapshots
func WithClock(clock providers.Clock) JobFeedOption {
	return func(s *JobFeedService) { s.clock = clock }
}

// NewJobFeedService creates a new job feed service
func NewJobFeedService(
	fetcher *FeedFetcher,
	detector *ConflictDetector,
	classifier *ArchiveClassifier,
	correlator *ReviewCorrelator,
	hub *SnapshotHub,
	opts ...JobFeedOption,
) *JobFeedService {
	s := &JobFeedService{
		fetcher:    fetcher,
		detector:   detector,
		classifier: classifier,
		correlator: correlator,
		hub:        hub,
		clock:      providers.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh rebuilds the identity's feed from scratch and publishes the outcome to its streams.
// A canceled refresh publishes nothing further and returns the context error.
// When refreshes overlap, streams keep the result of the one that started last.
func (s *JobFeedService) Refresh(ctx context.Context, identity entities.Identity) (*entities.FeedSnapshot, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to load the job feed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "JobFeedService.Refresh")
	defer span.End()

	start := time.Now()
	workerID := identity.UserID
	seq := s.hub.NextSeq()
	s.hub.Publish(workerID, entities.LoadingState().WithSeq(seq))

	snapshot, err := s.derive(ctx, identity)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		observability.RecordError(span, err)
		observability.RecordFeedRefresh(ctx, s.metrics, time.Since(start), err)
		observability.LoggerFromContext(ctx).Error().Err(err).Str("worker_id", workerID).Msg("feed refresh failed")
		s.hub.Publish(workerID, entities.ErrorState(err).WithSeq(seq))
		return nil, err
	}

	observability.RecordFeedRefresh(ctx, s.metrics, time.Since(start), nil)
	observability.SetSpanAttributes(span,
		attribute.Int("feed.active", len(snapshot.Active)),
		attribute.Int("feed.archived", len(snapshot.Archived)),
	)
	if !s.hub.Publish(workerID, entities.SuccessState(snapshot).WithSeq(seq)) {
		observability.LoggerFromContext(ctx).Debug().Str("worker_id", workerID).Uint64("seq", seq).
			Msg("feed snapshot superseded by a newer refresh")
	}
	return snapshot, nil
}

func (s *JobFeedService) derive(ctx context.Context, identity entities.Identity) (*entities.FeedSnapshot, error) {
	fetchCtx := ctx
	if s.refreshTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.refreshTimeout)
		defer cancel()
	}

	data, err := s.fetcher.Fetch(fetchCtx, identity)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewFetchError("feed refresh timed out", err)
		}
		return nil, err
	}

	statuses := ResolveStatuses(ctx, data.Applications)
	conflicts := s.detector.Detect(ctx, data.Jobs, statuses)
	observability.RecordConflicts(ctx, s.metrics, len(conflicts))

	rows := make([]entities.JobWithStatus, 0, len(data.Jobs))
	for _, job := range data.Jobs {
		if job == nil {
			continue
		}
		rows = append(rows, entities.JobWithStatus{
			Job:               job,
			ApplicationStatus: statusFor(statuses, job.ID),
			HasConflict:       conflicts[job.ID],
		})
	}
	s.correlator.Correlate(rows, data.Reviews, data.Employers)

	today := s.classifier.Today()
	active, archived := s.classifier.Classify(ctx, rows, today)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &entities.FeedSnapshot{
		WorkerID:    identity.UserID,
		Today:       today,
		GeneratedAt: s.clock.Now().UTC(),
		Jobs:        rows,
		Active:      active,
		Archived:    archived,
	}, nil
}

// Watch streams the identity's feed states until ctx ends, starting with a fresh refresh.
// With an event bus, every feed event for the worker triggers another refresh.
func (s *JobFeedService) Watch(ctx context.Context, identity entities.Identity) (<-chan entities.FeedState, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to watch the job feed")
	}

	states := s.hub.Subscribe(ctx, identity.UserID)

	var events <-chan *entities.FeedEvent
	if s.eventBus != nil {
		var err error
		events, err = s.eventBus.Subscribe(ctx, providers.GetWorkerChannel(identity.UserID))
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("worker_id", identity.UserID).
				Msg("feed events unavailable, stream will only update on local writes")
			events = nil
		}
	}

	go func() {
		_, _ = s.Refresh(ctx, identity)
		if events == nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				observability.LoggerFromContext(ctx).Debug().
					Str("worker_id", identity.UserID).
					Str("event_type", string(event.EventType)).
					Msg("refreshing feed after event")
				_, _ = s.Refresh(ctx, identity)
			}
		}
	}()

	return states, nil
}

// Notify tells workerID's feed that something it derives from has changed.
// Without an event bus the feed is refreshed in-process, and only if someone is watching.
func (s *JobFeedService) Notify(ctx context.Context, workerID string, event *entities.FeedEvent) error {
	if s.eventBus != nil {
		return s.Broadcast(ctx, workerID, event)
	}
	if !s.hub.HasSubscribers(workerID) {
		return nil
	}
	_, err := s.Refresh(ctx, entities.Identity{UserID: workerID})
	return err
}

// Broadcast publishes event on the worker's bus channel. It is a no-op without a bus.
func (s *JobFeedService) Broadcast(ctx context.Context, workerID string, event *entities.FeedEvent) error {
	if s.eventBus == nil || event == nil {
		return nil
	}
	if err := s.eventBus.Publish(ctx, providers.GetWorkerChannel(workerID), event); err != nil {
		return apperrors.NewExternalError("failed to publish feed event", err)
	}
	return nil
}
