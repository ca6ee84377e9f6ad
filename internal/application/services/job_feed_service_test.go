package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profplay/isbasi/backend/internal/application/services"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// feedFixture wires a JobFeedService over mocked repositories with "today" fixed at 2025-10-26.
type feedFixture struct {
	jobs       *MockJobRepository
	apps       *MockApplicationRepository
	reviews    *MockReviewRepository
	users      *MockUserRepository
	hub        *services.SnapshotHub
	correlator *services.ReviewCorrelator
	clock      providers.Clock
	feed       *services.JobFeedService
}

func newFeedFixture(t *testing.T, opts ...services.JobFeedOption) *feedFixture {
	t.Helper()
	f := &feedFixture{
		jobs:    new(MockJobRepository),
		apps:    new(MockApplicationRepository),
		reviews: new(MockReviewRepository),
		users:   new(MockUserRepository),
		hub:     services.NewSnapshotHub(),
		clock:   providers.FixedClock{At: time.Date(2025, 10, 26, 9, 0, 0, 0, time.UTC)},
	}

	f.correlator = services.NewReviewCorrelator(f.reviews, f.users, 16, 10, time.Minute, nil)

	opts = append([]services.JobFeedOption{services.WithClock(f.clock)}, opts...)
	f.feed = services.NewJobFeedService(
		services.NewFeedFetcher(f.jobs, f.apps, f.reviews, f.users),
		services.NewConflictDetector(),
		services.NewArchiveClassifier(f.clock, time.UTC),
		f.correlator,
		f.hub,
		opts...,
	)
	return f
}

// awaitState reads from states until one of the wanted kind arrives
func awaitState(t *testing.T, states <-chan entities.FeedState, kind entities.FeedStateKind) entities.FeedState {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case state, ok := <-states:
			require.True(t, ok, "stream closed while waiting for %s", kind)
			if state.Kind == kind {
				return state
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s state", kind)
		}
	}
}

func TestJobFeedService_Refresh(t *testing.T) {
	worker := entities.Identity{UserID: "w-1"}

	t.Run("derives statuses, conflicts, reviews and partitions", func(t *testing.T) {
		f := newFeedFixture(t)
		booked := newJob("booked", "emp-1", "2025-10-27", "2025-10-29")
		clash := newJob("clash", "emp-2", "2025-10-28", "")
		open := newJob("open", "emp-2", "2025-11-02", "")
		done := newJob("done", "emp-1", "2025-10-20", "2025-10-25")
		review := &entities.Review{ID: "r-1", JobID: "done", ReviewerID: "w-1", RevieweeID: "emp-1", Score: 4}

		f.jobs.On("List", mock.Anything, mock.Anything).Return([]*entities.Job{done, booked, clash, open}, nil)
		f.users.On("GetByIDs", mock.Anything, []string{"emp-1", "emp-2"}).
			Return([]*entities.User{{ID: "emp-1", Rating: floatPtr(4.5)}, {ID: "emp-2"}}, nil)
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{
			newApplication("booked", "w-1", entities.ApplicationStatusApproved),
			newApplication("clash", "w-1", entities.ApplicationStatusPending),
			newApplication("done", "w-1", entities.ApplicationStatusApproved),
		}, nil)
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{review}, nil)

		snapshot, err := f.feed.Refresh(context.Background(), worker)

		require.NoError(t, err)
		assert.Equal(t, "w-1", snapshot.WorkerID)
		assert.Equal(t, time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC), snapshot.Today)
		require.Len(t, snapshot.Jobs, 4)

		row, ok := snapshot.Find("booked")
		require.True(t, ok)
		assert.True(t, row.StatusIs(entities.ApplicationStatusApproved))
		assert.False(t, row.HasConflict)
		assert.Equal(t, 4.5, *row.EmployerRating)

		row, _ = snapshot.Find("clash")
		assert.True(t, row.HasConflict)

		row, _ = snapshot.Find("open")
		assert.Nil(t, row.ApplicationStatus)
		assert.Nil(t, row.EmployerRating)

		row, _ = snapshot.Find("done")
		assert.Equal(t, review, row.MyReview)
		assert.Equal(t, entities.JobLifecycleRated, row.Lifecycle(snapshot.Today))

		activeIDs := make([]string, 0)
		for _, r := range snapshot.Active {
			activeIDs = append(activeIDs, r.Job.ID)
		}
		archivedIDs := make([]string, 0)
		for _, r := range snapshot.Archived {
			archivedIDs = append(archivedIDs, r.Job.ID)
		}
		assert.Equal(t, []string{"booked", "open"}, activeIDs)
		assert.Equal(t, []string{"done", "clash"}, archivedIDs)
	})

	t.Run("expired jobs move to the archive", func(t *testing.T) {
		f := newFeedFixture(t)
		f.jobs.On("List", mock.Anything, mock.Anything).Return([]*entities.Job{newJob("old", "emp-1", "2025-10-24", "2025-10-25")}, nil)
		f.users.On("GetByIDs", mock.Anything, mock.Anything).Return([]*entities.User{}, nil)
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{
			newApplication("old", "w-1", entities.ApplicationStatusPending),
		}, nil)
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{}, nil)

		snapshot, err := f.feed.Refresh(context.Background(), worker)

		require.NoError(t, err)
		assert.Empty(t, snapshot.Active)
		require.Len(t, snapshot.Archived, 1)
		assert.Equal(t, entities.ReviewActionRate, snapshot.Archived[0].ReviewAction(snapshot.Today))
	})

	t.Run("publishes loading then success", func(t *testing.T) {
		f := newFeedFixture(t)
		f.jobs.On("List", mock.Anything, mock.Anything).Return([]*entities.Job{}, nil)
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{}, nil)
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		states := f.hub.Subscribe(ctx, "w-1")

		snapshot, err := f.feed.Refresh(context.Background(), worker)

		require.NoError(t, err)
		state := awaitState(t, states, entities.FeedStateSuccess)
		assert.Same(t, snapshot, state.Snapshot)
	})

	t.Run("publishes an error state when a read fails", func(t *testing.T) {
		f := newFeedFixture(t)
		f.jobs.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{}, nil).Maybe()
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{}, nil).Maybe()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		states := f.hub.Subscribe(ctx, "w-1")

		snapshot, err := f.feed.Refresh(context.Background(), worker)

		assert.Nil(t, snapshot)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
		state := awaitState(t, states, entities.FeedStateError)
		assert.Equal(t, err, state.Err)
	})

	t.Run("a canceled refresh publishes nothing", func(t *testing.T) {
		f := newFeedFixture(t)
		subCtx, stop := context.WithCancel(context.Background())
		defer stop()
		states := f.hub.Subscribe(subCtx, "w-1")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		snapshot, err := f.feed.Refresh(ctx, worker)

		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, context.Canceled)
		select {
		case state := <-states:
			t.Fatalf("unexpected %s state", state.Kind)
		default:
		}
		f.jobs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("cancellation mid-refresh publishes no outcome", func(t *testing.T) {
		f := newFeedFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f.jobs.On("List", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, context.Canceled)
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return(nil, context.Canceled).Maybe()
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return(nil, context.Canceled).Maybe()

		subCtx, stop := context.WithCancel(context.Background())
		defer stop()
		states := f.hub.Subscribe(subCtx, "w-1")

		snapshot, err := f.feed.Refresh(ctx, worker)

		assert.Nil(t, snapshot)
		assert.Equal(t, context.Canceled, err)
		state := <-states
		assert.Equal(t, entities.FeedStateLoading, state.Kind)
		select {
		case state := <-states:
			t.Fatalf("unexpected %s state", state.Kind)
		default:
		}
	})

	t.Run("requires an identity", func(t *testing.T) {
		f := newFeedFixture(t)

		_, err := f.feed.Refresh(context.Background(), entities.Identity{})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})
}

func TestJobFeedService_Watch(t *testing.T) {
	worker := entities.Identity{UserID: "w-1"}

	t.Run("starts with a fresh snapshot and closes with the context", func(t *testing.T) {
		f := newFeedFixture(t)
		f.jobs.On("List", mock.Anything, mock.Anything).Return([]*entities.Job{}, nil)
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{}, nil)
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		states, err := f.feed.Watch(ctx, worker)
		require.NoError(t, err)

		state := awaitState(t, states, entities.FeedStateSuccess)
		assert.Equal(t, "w-1", state.Snapshot.WorkerID)

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-states:
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("refreshes when a feed event arrives on the bus", func(t *testing.T) {
		bus := new(MockEventBus)
		f := newFeedFixture(t, services.WithEventBus(bus))
		events := make(chan *entities.FeedEvent, 1)

		bus.On("Subscribe", mock.Anything, providers.GetWorkerChannel("w-1")).Return((<-chan *entities.FeedEvent)(events), nil)
		f.jobs.On("List", mock.Anything, mock.Anything).Return([]*entities.Job{newJob("job-1", "emp-1", "2025-10-30", "")}, nil)
		f.users.On("GetByIDs", mock.Anything, []string{"emp-1"}).Return([]*entities.User{{ID: "emp-1"}}, nil)
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{
			newApplication("job-1", "w-1", entities.ApplicationStatusPending),
		}, nil).Once()
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{
			newApplication("job-1", "w-1", entities.ApplicationStatusApproved),
		}, nil)
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		states, err := f.feed.Watch(ctx, worker)
		require.NoError(t, err)

		first := awaitState(t, states, entities.FeedStateSuccess)
		row, _ := first.Snapshot.Find("job-1")
		assert.True(t, row.StatusIs(entities.ApplicationStatusPending))

		events <- entities.NewFeedEvent(entities.FeedEventApplicationStatusChanged, "w-1", "job-1")

		second := awaitState(t, states, entities.FeedStateSuccess)
		row, _ = second.Snapshot.Find("job-1")
		assert.True(t, row.StatusIs(entities.ApplicationStatusApproved))
	})

	t.Run("requires an identity", func(t *testing.T) {
		f := newFeedFixture(t)

		states, err := f.feed.Watch(context.Background(), entities.Identity{})

		assert.Nil(t, states)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})
}

func TestJobFeedService_Notify(t *testing.T) {
	t.Run("publishes on the worker channel when a bus is configured", func(t *testing.T) {
		bus := new(MockEventBus)
		f := newFeedFixture(t, services.WithEventBus(bus))
		event := entities.NewFeedEvent(entities.FeedEventApplicationStatusChanged, "w-1", "job-1")
		bus.On("Publish", mock.Anything, "feed:worker:w-1", event).Return(nil)

		err := f.feed.Notify(context.Background(), "w-1", event)

		require.NoError(t, err)
		bus.AssertExpectations(t)
	})

	t.Run("a refresh that read before the write cannot overwrite the stream", func(t *testing.T) {
		f := newFeedFixture(t)
		started := make(chan struct{})
		release := make(chan struct{})

		f.jobs.On("List", mock.Anything, mock.Anything).Return([]*entities.Job{newJob("job-1", "emp-1", "2025-10-30", "")}, nil)
		f.users.On("GetByIDs", mock.Anything, []string{"emp-1"}).Return([]*entities.User{{ID: "emp-1"}}, nil)
		f.reviews.On("ListByReviewer", mock.Anything, "w-1").Return([]*entities.Review{}, nil)
		// The initial refresh reads applications before the worker applies, then stalls.
		f.apps.On("ListByWorker", mock.Anything, "w-1").Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return([]*entities.Application{}, nil).Once()
		f.apps.On("ListByWorker", mock.Anything, "w-1").Return([]*entities.Application{
			newApplication("job-1", "w-1", entities.ApplicationStatusPending),
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		states, err := f.feed.Watch(ctx, entities.Identity{UserID: "w-1"})
		require.NoError(t, err)
		<-started

		require.NoError(t, f.feed.Notify(ctx, "w-1", entities.NewFeedEvent(entities.FeedEventApplicationCreated, "w-1", "job-1")))
		current := awaitState(t, states, entities.FeedStateSuccess)
		row, _ := current.Snapshot.Find("job-1")
		require.True(t, row.StatusIs(entities.ApplicationStatusPending))

		close(release)

		assert.Never(t, func() bool {
			select {
			case state := <-states:
				if state.Kind != entities.FeedStateSuccess {
					return false
				}
				row, _ := state.Snapshot.Find("job-1")
				return row.ApplicationStatus == nil
			default:
				return false
			}
		}, 300*time.Millisecond, 10*time.Millisecond)
		f.apps.AssertNumberOfCalls(t, "ListByWorker", 2)
	})

	t.Run("does nothing in-process when nobody is watching", func(t *testing.T) {
		f := newFeedFixture(t)

		err := f.feed.Notify(context.Background(), "w-1", entities.NewFeedEvent(entities.FeedEventReviewSubmitted, "w-1", "job-1"))

		require.NoError(t, err)
		f.jobs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}
