package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// FeedData is the raw material of one feed refresh
type FeedData struct {
	Jobs         []*entities.Job
	Applications []*entities.Application
	Reviews      []*entities.Review
	Employers    map[string]*entities.User
}

// FeedFetcher loads everything a worker's feed is derived from
type FeedFetcher struct {
	jobs         repositories.JobRepository
	applications repositories.ApplicationRepository
	reviews      repositories.ReviewRepository
	users        repositories.UserRepository
	metrics      *observability.Metrics
}

// NewFeedFetcher creates a new feed fetcher
func NewFeedFetcher(
	jobs repositories.JobRepository,
	applications repositories.ApplicationRepository,
	reviews repositories.ReviewRepository,
	users repositories.UserRepository,
) *FeedFetcher {
	return &FeedFetcher{
		jobs:         jobs,
		applications: applications,
		reviews:      reviews,
		users:        users,
	}
}

// Instrument records the duration of every read the fetcher makes
func (f *FeedFetcher) Instrument(metrics *observability.Metrics) *FeedFetcher {
	f.metrics = metrics
	return f
}

// Fetch reads jobs, the worker's applications and reviews concurrently.
// Employer profiles are requested as soon as the jobs arrive.
// The first failure cancels the other reads and no partial data is returned.
func (f *FeedFetcher) Fetch(ctx context.Context, identity entities.Identity) (*FeedData, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.NewAuthError("sign in to load the job feed")
	}

	ctx, span := observability.StartSpan(ctx, "FeedFetcher.Fetch")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("worker.id", identity.UserID))

	var data FeedData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		jobs, err := f.jobs.List(gctx, repositories.JobFilter{})
		observability.RecordDBMetric(gctx, f.metrics, "jobs.list", time.Since(start))
		if err != nil {
			return fetchError("failed to fetch jobs", err)
		}
		data.Jobs = jobs

		employerIDs := EmployerIDs(jobs)
		if len(employerIDs) == 0 {
			data.Employers = map[string]*entities.User{}
			return nil
		}
		start = time.Now()
		employers, err := f.users.GetByIDs(gctx, employerIDs)
		observability.RecordDBMetric(gctx, f.metrics, "users.get_by_ids", time.Since(start))
		if err != nil {
			return fetchError("failed to fetch employers", err)
		}
		data.Employers = make(map[string]*entities.User, len(employers))
		for _, e := range employers {
			data.Employers[e.ID] = e
		}
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		applications, err := f.applications.ListByWorker(gctx, identity.UserID)
		observability.RecordDBMetric(gctx, f.metrics, "applications.list_by_worker", time.Since(start))
		if err != nil {
			return fetchError("failed to fetch applications", err)
		}
		data.Applications = applications
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		reviews, err := f.reviews.ListByReviewer(gctx, identity.UserID)
		observability.RecordDBMetric(gctx, f.metrics, "reviews.list_by_reviewer", time.Since(start))
		if err != nil {
			return fetchError("failed to fetch reviews", err)
		}
		data.Reviews = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span,
		attribute.Int("feed.jobs", len(data.Jobs)),
		attribute.Int("feed.applications", len(data.Applications)),
	)
	return &data, nil
}

// EmployerIDs returns the distinct employer ids in first-seen order
func EmployerIDs(jobs []*entities.Job) []string {
	seen := make(map[string]struct{}, len(jobs))
	ids := make([]string, 0)
	for _, job := range jobs {
		if job == nil || job.EmployerID == "" {
			continue
		}
		if _, ok := seen[job.EmployerID]; ok {
			continue
		}
		seen[job.EmployerID] = struct{}{}
		ids = append(ids, job.EmployerID)
	}
	return ids
}

// fetchError wraps a read failure. Cancellation passes through untouched.
func fetchError(message string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewFetchError(message, err)
}
