package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/profplay/isbasi/backend/internal/api/middleware"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
)

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) Refresh(ctx context.Context, identity entities.Identity) (*entities.FeedSnapshot, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FeedSnapshot), args.Error(1)
}

func (m *MockFeedService) Watch(ctx context.Context, identity entities.Identity) (<-chan entities.FeedState, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan entities.FeedState), args.Error(1)
}

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Create(ctx context.Context, identity entities.Identity, input entities.JobInput) (*entities.Job, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Job), args.Error(1)
}

func (m *MockJobService) ListByEmployer(ctx context.Context, identity entities.Identity, employerID string) ([]entities.JobWithStatus, error) {
	args := m.Called(ctx, identity, employerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.JobWithStatus), args.Error(1)
}

func (m *MockJobService) ListByDateRange(ctx context.Context, identity entities.Identity, from, to string) ([]entities.JobWithStatus, error) {
	args := m.Called(ctx, identity, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.JobWithStatus), args.Error(1)
}

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Apply(ctx context.Context, identity entities.Identity, jobID string) (*entities.FeedWrite, error) {
	args := m.Called(ctx, identity, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FeedWrite), args.Error(1)
}

func (m *MockApplicationService) Cancel(ctx context.Context, identity entities.Identity, jobID string) (*entities.FeedWrite, error) {
	args := m.Called(ctx, identity, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FeedWrite), args.Error(1)
}

func (m *MockApplicationService) UpdateStatus(ctx context.Context, identity entities.Identity, applicationID string, status entities.ApplicationStatus) ([]entities.Applicant, error) {
	args := m.Called(ctx, identity, applicationID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Applicant), args.Error(1)
}

func (m *MockApplicationService) ListApplicants(ctx context.Context, identity entities.Identity, jobID string) ([]entities.Applicant, error) {
	args := m.Called(ctx, identity, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Applicant), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(ctx context.Context, identity entities.Identity, input entities.ReviewInput) (*entities.Review, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

type MockEmployerInfoService struct {
	mock.Mock
}

func (m *MockEmployerInfoService) EmployerInfo(ctx context.Context, identity entities.Identity, employerID string) (*entities.EmployerInfo, error) {
	args := m.Called(ctx, identity, employerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmployerInfo), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, identity entities.Identity) (*entities.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, identity entities.Identity, name, bio *string) (*entities.User, error) {
	args := m.Called(ctx, identity, name, bio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// authedRequest builds a request as the auth middleware would hand it on
func authedRequest(method, target, body string, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithIdentity(req.Context(), entities.Identity{UserID: userID}))
}

func strPtr(s string) *string {
	return &s
}

func statusPtr(s entities.ApplicationStatus) *entities.ApplicationStatus {
	return &s
}
