package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *entities.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*entities.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Job), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, filter repositories.JobFilter) ([]*entities.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Job), args.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *entities.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id string) (*entities.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) DeleteByJobAndWorker(ctx context.Context, jobID, workerID string) error {
	return m.Called(ctx, jobID, workerID).Error(0)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, id string, status entities.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockApplicationRepository) ListByWorker(ctx context.Context, workerID string) ([]*entities.Application, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]*entities.Application, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Application), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) ListByReviewee(ctx context.Context, revieweeID string, limit int) ([]*entities.Review, error) {
	args := m.Called(ctx, revieweeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]*entities.Review, error) {
	args := m.Called(ctx, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByJobAndReviewer(ctx context.Context, jobID, reviewerID string) ([]*entities.Review, error) {
	args := m.Called(ctx, jobID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, name, bio *string) error {
	return m.Called(ctx, id, name, bio).Error(0)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.FeedEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FeedEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.FeedEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func newJob(id, employerID, start, end string) *entities.Job {
	job := &entities.Job{ID: id, EmployerID: employerID, Title: "job " + id, Location: "Salihli", DateStart: start}
	if end != "" {
		job.DateEnd = strPtr(end)
	}
	return job
}

func newApplication(jobID, workerID string, status entities.ApplicationStatus) *entities.Application {
	return &entities.Application{ID: "app-" + jobID, JobID: jobID, WorkerID: workerID, Status: status}
}
