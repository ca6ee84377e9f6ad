package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/profplay/isbasi/backend/internal/api/handlers"
	"github.com/profplay/isbasi/backend/internal/domain/entities"
	apperrors "github.com/profplay/isbasi/backend/pkg/errors"
)

func TestJobHandler_CreateJob(t *testing.T) {
	employer := entities.Identity{UserID: "emp-1"}

	t.Run("creates a job", func(t *testing.T) {
		service := new(MockJobService)
		handler := handlers.NewJobHandler(service)
		input := entities.JobInput{Title: "Harvest", Location: "Salihli", DateStart: "2025-11-01"}
		service.On("Create", mock.Anything, employer, input).
			Return(&entities.Job{ID: "job-1", EmployerID: "emp-1", Title: "Harvest", Location: "Salihli", DateStart: "2025-11-01"}, nil)

		w := httptest.NewRecorder()
		handler.CreateJob(w, authedRequest(http.MethodPost, "/api/jobs",
			`{"title":"Harvest","location":"Salihli","date_start":"2025-11-01"}`, "emp-1"))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"job-1"`)
	})

	t.Run("validation errors are bad requests", func(t *testing.T) {
		service := new(MockJobService)
		handler := handlers.NewJobHandler(service)
		service.On("Create", mock.Anything, employer, mock.Anything).Return(nil, apperrors.NewValidationError("title is required"))

		w := httptest.NewRecorder()
		handler.CreateJob(w, authedRequest(http.MethodPost, "/api/jobs", `{"location":"Salihli"}`, "emp-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"title is required"}`, w.Body.String())
	})
}

func TestJobHandler_ListJobs(t *testing.T) {
	employer := entities.Identity{UserID: "emp-1"}

	t.Run("lists by employer", func(t *testing.T) {
		service := new(MockJobService)
		handler := handlers.NewJobHandler(service)
		service.On("ListByEmployer", mock.Anything, employer, "emp-2").Return([]entities.JobWithStatus{}, nil)

		w := httptest.NewRecorder()
		handler.ListJobs(w, authedRequest(http.MethodGet, "/api/jobs?employer_id=emp-2", "", "emp-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"jobs":[],"count":0}`, w.Body.String())
	})

	t.Run("lists by date range", func(t *testing.T) {
		service := new(MockJobService)
		handler := handlers.NewJobHandler(service)
		service.On("ListByDateRange", mock.Anything, employer, "2025-11-01", "2025-11-30").Return([]entities.JobWithStatus{}, nil)

		w := httptest.NewRecorder()
		handler.ListJobs(w, authedRequest(http.MethodGet, "/api/jobs?from=2025-11-01&to=2025-11-30", "", "emp-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		service.AssertExpectations(t)
	})

	t.Run("half a range is rejected", func(t *testing.T) {
		service := new(MockJobService)
		handler := handlers.NewJobHandler(service)

		w := httptest.NewRecorder()
		handler.ListJobs(w, authedRequest(http.MethodGet, "/api/jobs?from=2025-11-01", "", "emp-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
