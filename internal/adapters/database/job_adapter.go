package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

// JobAdapter implements the JobRepository interface
type JobAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewJobAdapter creates a new job adapter
func NewJobAdapter(client *postgres.Client) repositories.JobRepository {
	return &JobAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// jobColumns casts the date columns to text so they round-trip as yyyy-MM-dd
func jobColumns() []interface{} {
	return []interface{}{
		"id", "employer_id", "title", "description", "location",
		goqu.Cast(goqu.C("date_start"), "TEXT").As("date_start"),
		goqu.Cast(goqu.C("date_end"), "TEXT").As("date_end"),
		"min_rating", "created_at",
	}
}

// Create inserts a new job
func (a *JobAdapter) Create(ctx context.Context, job *entities.Job) error {
	if job == nil {
		return apperrors.NewInternalError("job is nil", fmt.Errorf("job is nil"))
	}

	record := goqu.Record{
		"id":          job.ID,
		"employer_id": job.EmployerID,
		"title":       job.Title,
		"description": job.Description,
		"location":    job.Location,
		"date_start":  job.DateStart,
		"date_end":    nullString(job.DateEnd),
		"min_rating":  nullFloat(job.MinRating),
	}
	if job.CreatedAt != nil {
		record["created_at"] = *job.CreatedAt
	}

	query, args, err := a.db.Insert("jobs").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build job insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return writeError("failed to create job", "a job with this id already exists", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (a *JobAdapter) GetByID(ctx context.Context, id string) (*entities.Job, error) {
	query, args, err := a.db.Select(jobColumns()...).
		From("jobs").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	job, err := scanJob(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("job with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewFetchError("failed to get job", err)
	}

	return job, nil
}

// List retrieves jobs matching the filter, ordered by start date ascending
func (a *JobAdapter) List(ctx context.Context, filter repositories.JobFilter) ([]*entities.Job, error) {
	ds := a.db.Select(jobColumns()...).From("jobs")

	if filter.EmployerID != "" {
		ds = ds.Where(goqu.Ex{"employer_id": filter.EmployerID})
	}
	if filter.From != "" {
		ds = ds.Where(goqu.C("date_start").Gte(filter.From))
	}
	if filter.To != "" {
		ds = ds.Where(goqu.C("date_start").Lte(filter.To))
	}

	query, args, err := ds.Order(goqu.I("date_start").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build job list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to list jobs", err)
	}
	defer rows.Close()

	jobs := make([]*entities.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperrors.NewFetchError("failed to scan job", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewFetchError("failed to iterate jobs", err)
	}

	return jobs, nil
}

func scanJob(row rowScanner) (*entities.Job, error) {
	job := &entities.Job{}
	var description, dateEnd sql.NullString
	var minRating sql.NullFloat64
	var createdAt sql.NullTime

	if err := row.Scan(
		&job.ID,
		&job.EmployerID,
		&job.Title,
		&description,
		&job.Location,
		&job.DateStart,
		&dateEnd,
		&minRating,
		&createdAt,
	); err != nil {
		return nil, err
	}

	job.Description = description.String
	job.DateEnd = stringPtr(dateEnd)
	job.MinRating = floatPtr(minRating)
	if createdAt.Valid {
		t := createdAt.Time
		job.CreatedAt = &t
	}
	return job, nil
}
