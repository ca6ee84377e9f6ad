package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

var applicationColumns = []interface{}{"id", "job_id", "worker_id", "status"}

// ApplicationAdapter implements the ApplicationRepository interface
type ApplicationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewApplicationAdapter creates a new application adapter
func NewApplicationAdapter(client *postgres.Client) repositories.ApplicationRepository {
	return &ApplicationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new application
func (a *ApplicationAdapter) Create(ctx context.Context, application *entities.Application) error {
	if application == nil {
		return apperrors.NewInternalError("application is nil", fmt.Errorf("application is nil"))
	}

	record := goqu.Record{
		"id":        application.ID,
		"job_id":    application.JobID,
		"worker_id": application.WorkerID,
		"status":    string(application.Status),
	}

	query, args, err := a.db.Insert("applications").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build application insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return writeError("failed to create application", "already applied to this job", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (a *ApplicationAdapter) GetByID(ctx context.Context, id string) (*entities.Application, error) {
	query, args, err := a.db.Select(applicationColumns...).
		From("applications").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	application := &entities.Application{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&application.ID,
		&application.JobID,
		&application.WorkerID,
		&application.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("application with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewFetchError("failed to get application", err)
	}

	return application, nil
}

// DeleteByJobAndWorker withdraws a worker's application. Deleting an
// application that does not exist is not an error.
func (a *ApplicationAdapter) DeleteByJobAndWorker(ctx context.Context, jobID, workerID string) error {
	query, args, err := a.db.Delete("applications").
		Where(goqu.Ex{"job_id": jobID, "worker_id": workerID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewWriteError("failed to cancel application", err)
	}

	return nil
}

// UpdateStatus sets the status of an application
func (a *ApplicationAdapter) UpdateStatus(ctx context.Context, id string, status entities.ApplicationStatus) error {
	query, args, err := a.db.Update("applications").
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewWriteError("failed to update application status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewWriteError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("application with id %s not found", id))
	}

	return nil
}

// ListByWorker retrieves all applications made by a worker, in backend order
func (a *ApplicationAdapter) ListByWorker(ctx context.Context, workerID string) ([]*entities.Application, error) {
	return a.list(ctx, goqu.Ex{"worker_id": workerID})
}

// ListByJob retrieves all applications made to a job
func (a *ApplicationAdapter) ListByJob(ctx context.Context, jobID string) ([]*entities.Application, error) {
	return a.list(ctx, goqu.Ex{"job_id": jobID})
}

func (a *ApplicationAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Application, error) {
	query, args, err := a.db.Select(applicationColumns...).
		From("applications").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build application list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to list applications", err)
	}
	defer rows.Close()

	applications := make([]*entities.Application, 0)
	for rows.Next() {
		application := &entities.Application{}
		if err := rows.Scan(
			&application.ID,
			&application.JobID,
			&application.WorkerID,
			&application.Status,
		); err != nil {
			return nil, apperrors.NewFetchError("failed to scan application", err)
		}
		applications = append(applications, application)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewFetchError("failed to iterate applications", err)
	}

	return applications, nil
}
