package routes

import (
	"net/http"

	"github.com/profplay/isbasi/backend/internal/api/handlers"
	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	feedHandler        *handlers.FeedHandler
	jobHandler         *handlers.JobHandler
	applicationHandler *handlers.ApplicationHandler
	reviewHandler      *handlers.ReviewHandler
	profileHandler     *handlers.ProfileHandler
	healthHandler      *handlers.HealthHandler

	auth    *middleware.Authenticator
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	feedHandler *handlers.FeedHandler,
	jobHandler *handlers.JobHandler,
	applicationHandler *handlers.ApplicationHandler,
	reviewHandler *handlers.ReviewHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
	auth *middleware.Authenticator,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		feedHandler:        feedHandler,
		jobHandler:         jobHandler,
		applicationHandler: applicationHandler,
		reviewHandler:      reviewHandler,
		profileHandler:     profileHandler,
		healthHandler:      healthHandler,
		auth:               auth,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Probes are unauthenticated
	r.mux.HandleFunc("GET /health", r.healthHandler.Live)
	r.mux.HandleFunc("GET /ready", r.healthHandler.Ready)

	// Feed endpoints
	r.handle("GET /api/feed", r.feedHandler.GetFeed)
	r.handle("GET /api/feed/stream", r.feedHandler.StreamFeed)

	// Job endpoints
	r.handle("POST /api/jobs", r.jobHandler.CreateJob)
	r.handle("GET /api/jobs", r.jobHandler.ListJobs)

	// Application endpoints
	r.handle("POST /api/jobs/{id}/applications", r.applicationHandler.Apply)
	r.handle("DELETE /api/jobs/{id}/applications", r.applicationHandler.Cancel)
	r.handle("GET /api/jobs/{id}/applications", r.applicationHandler.ListApplicants)
	r.handle("PATCH /api/applications/{id}", r.applicationHandler.UpdateStatus)

	// Review endpoints
	r.handle("POST /api/reviews", r.reviewHandler.SubmitReview)
	r.handle("GET /api/employers/{id}", r.reviewHandler.GetEmployer)

	// Profile endpoints
	r.handle("GET /api/me", r.profileHandler.GetProfile)
	r.handle("PATCH /api/me", r.profileHandler.UpdateProfile)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflights skip auth
	handler = middleware.CORSMiddleware(handler)

	return handler
}

// handle registers an authenticated route
func (r *Router) handle(pattern string, fn http.HandlerFunc) {
	r.mux.Handle(pattern, r.auth.Middleware(fn))
}
