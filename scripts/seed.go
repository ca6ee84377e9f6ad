package main

import (
	"context"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/profplay/isbasi/backend/internal/adapters/database"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/infrastructure/clients/postgres"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
	"github.com/profplay/isbasi/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Env, cfg.LogLevel)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := goqu.New("postgres", pgClient.DB())

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				applications,
				jobs,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	jobRepo := database.NewJobAdapter(pgClient)
	applicationRepo := database.NewApplicationAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)

	// 1. Users. There is no repository write path for accounts, they come from the identity provider.
	users := []goqu.Record{
		{"id": uuid.New().String(), "name": "Kuzey Yapı", "role": string(entities.UserRoleEmployer), "rating": 4.6, "bio": "Residential renovation in Kadıköy"},
		{"id": uuid.New().String(), "name": "Liman Lojistik", "role": string(entities.UserRoleEmployer), "rating": 4.1, "bio": "Warehouse and port shifts"},
		{"id": uuid.New().String(), "name": "Ayşe Demir", "role": string(entities.UserRoleEmployee), "rating": 4.8, "bio": "Painter, 6 years"},
		{"id": uuid.New().String(), "name": "Mehmet Kaya", "role": string(entities.UserRoleEmployee), "rating": 3.9, "bio": "Forklift licence"},
	}
	for _, u := range users {
		query, args, err := db.Insert("users").Rows(u).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build user insert")
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Error().Err(err).Interface("name", u["name"]).Msg("Failed to create user")
		}
	}
	builder, logistics := users[0]["id"].(string), users[1]["id"].(string)
	painter, driver := users[2]["id"].(string), users[3]["id"].(string)

	// 2. Jobs around today so every lifecycle shows up in the feed
	today := time.Now().UTC()
	day := func(offset int) string { return entities.FormatDate(today.AddDate(0, 0, offset)) }
	dayPtr := func(offset int) *string { s := day(offset); return &s }
	minRating := 4.0

	jobs := []entities.Job{
		{ID: uuid.New().String(), EmployerID: builder, Title: "Interior painting", Description: "Two-bedroom flat, walls and ceilings", Location: "Kadıköy", DateStart: day(1), DateEnd: dayPtr(3), MinRating: &minRating},
		{ID: uuid.New().String(), EmployerID: builder, Title: "Tile removal", Description: "Bathroom strip-out", Location: "Moda", DateStart: day(2)},
		{ID: uuid.New().String(), EmployerID: logistics, Title: "Night shift loading", Description: "Container unloading", Location: "Ambarlı", DateStart: day(2), DateEnd: dayPtr(2)},
		{ID: uuid.New().String(), EmployerID: logistics, Title: "Inventory count", Description: "Quarterly stock take", Location: "Tuzla", DateStart: day(-5), DateEnd: dayPtr(-4)},
		{ID: uuid.New().String(), EmployerID: builder, Title: "Site cleanup", Description: "Debris removal after renovation", Location: "Üsküdar", DateStart: day(-2)},
	}
	for i := range jobs {
		if err := jobRepo.Create(ctx, &jobs[i]); err != nil {
			log.Error().Err(err).Str("title", jobs[i].Title).Msg("Failed to create job")
		}
	}

	// 3. Applications: one approved booking, one pending that overlaps it, finished work in the past
	applications := []entities.Application{
		{ID: uuid.New().String(), JobID: jobs[0].ID, WorkerID: painter, Status: entities.ApplicationStatusApproved},
		{ID: uuid.New().String(), JobID: jobs[1].ID, WorkerID: painter, Status: entities.ApplicationStatusPending},
		{ID: uuid.New().String(), JobID: jobs[2].ID, WorkerID: driver, Status: entities.ApplicationStatusPending},
		{ID: uuid.New().String(), JobID: jobs[3].ID, WorkerID: driver, Status: entities.ApplicationStatusApproved},
		{ID: uuid.New().String(), JobID: jobs[4].ID, WorkerID: painter, Status: entities.ApplicationStatusApproved},
	}
	for i := range applications {
		if err := applicationRepo.Create(ctx, &applications[i]); err != nil {
			log.Error().Err(err).Str("job_id", applications[i].JobID).Msg("Failed to create application")
		}
	}

	// 4. Reviews on the finished jobs, in both directions
	comment := "On time and careful with the materials"
	reviews := []entities.Review{
		{ID: uuid.New().String(), JobID: jobs[3].ID, ReviewerID: logistics, RevieweeID: driver, Score: 4},
		{ID: uuid.New().String(), JobID: jobs[3].ID, ReviewerID: driver, RevieweeID: logistics, Score: 5},
		{ID: uuid.New().String(), JobID: jobs[4].ID, ReviewerID: builder, RevieweeID: painter, Score: 5, Comment: &comment},
	}
	for i := range reviews {
		if err := reviewRepo.Create(ctx, &reviews[i]); err != nil {
			log.Error().Err(err).Str("job_id", reviews[i].JobID).Msg("Failed to create review")
		}
	}

	log.Info().
		Int("users", len(users)).
		Int("jobs", len(jobs)).
		Int("applications", len(applications)).
		Int("reviews", len(reviews)).
		Msg("Seeding completed")
}
