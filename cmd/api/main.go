package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/profplay/isbasi/backend/internal/adapters/cache"
	"github.com/profplay/isbasi/backend/internal/adapters/database"
	"github.com/profplay/isbasi/backend/internal/adapters/events"
	"github.com/profplay/isbasi/backend/internal/api/handlers"
	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/api/routes"
	"github.com/profplay/isbasi/backend/internal/application/services"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/clients/postgres"
	"github.com/profplay/isbasi/backend/internal/infrastructure/clients/redis"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	"github.com/profplay/isbasi/backend/pkg/config"
	"github.com/profplay/isbasi/backend/pkg/secrets"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	vaultResult, vaultErr := secrets.Apply(context.Background(), secrets.LoadVaultConfigFromEnv())

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	switch {
	case vaultErr != nil:
		log.Warn().Err(vaultErr).Str("path", vaultResult.Path).Msg("failed to load secrets from Vault, using environment only")
	case vaultResult.Enabled:
		log.Info().Str("path", vaultResult.Path).Int("loaded", vaultResult.Loaded).Int("skipped", vaultResult.Skipped).Msg("secrets loaded from Vault")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it profiles are read uncached and feed events stay in-process.
	health := handlers.NewHealthHandler().AddCheck("postgres", pgClient)

	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache and event bus")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			health.AddCheck("redis", redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache and event bus initialized")
		}
	}

	jobAdapter := database.NewJobAdapter(pgClient)
	applicationAdapter := database.NewApplicationAdapter(pgClient)
	reviewAdapter := database.NewReviewAdapter(pgClient)

	var userAdapter repositories.UserRepository = database.NewUserAdapter(pgClient)
	if cacheProvider != nil {
		userAdapter = database.NewCachedUserAdapter(userAdapter, cacheProvider, cfg.Feed.EmployerCacheTTL, metrics)
	}

	clock := providers.SystemClock{}
	loc := cfg.Feed.Location()

	correlator := services.NewReviewCorrelator(
		reviewAdapter,
		userAdapter,
		cfg.Feed.EmployerMemoSize,
		cfg.Feed.EmployerReviewLimit,
		cfg.Feed.EmployerCacheTTL,
		metrics,
	)

	feedOpts := []services.JobFeedOption{
		services.WithMetrics(metrics),
		services.WithRefreshTimeout(cfg.Feed.RefreshTimeout),
		services.WithClock(clock),
	}
	if eventBus != nil {
		feedOpts = append(feedOpts, services.WithEventBus(eventBus))
	}
	feedService := services.NewJobFeedService(
		services.NewFeedFetcher(jobAdapter, applicationAdapter, reviewAdapter, userAdapter).Instrument(metrics),
		services.NewConflictDetector(),
		services.NewArchiveClassifier(clock, loc),
		correlator,
		services.NewSnapshotHub(),
		feedOpts...,
	)

	jobService := services.NewJobService(jobAdapter, clock)
	applicationService := services.NewApplicationService(applicationAdapter, jobAdapter, userAdapter, feedService)
	reviewService := services.NewReviewService(reviewAdapter, correlator, feedService, clock)
	profileService := services.NewProfileService(userAdapter)

	router := routes.NewRouter(
		handlers.NewFeedHandler(feedService),
		handlers.NewJobHandler(jobService),
		handlers.NewApplicationHandler(applicationService),
		handlers.NewReviewHandler(reviewService, correlator),
		handlers.NewProfileHandler(profileService),
		health,
		middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: feed streams stay open for as long as the client listens.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("timezone", loc.String()).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("server shutting down")

	// Ends open feed streams so Shutdown does not wait on them.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
