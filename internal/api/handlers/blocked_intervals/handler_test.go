package blocked_intervals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked/models"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
)

type mockBlockedService struct {
	mock.Mock
}

func (m *mockBlockedService) Create(ctx context.Context, req *models.CreateBlockedRequest) (*models.BlockedResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BlockedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlockedService) List(ctx context.Context, req *models.ListBlockedRequest) (*models.BlockedListResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BlockedListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlockedService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(svc BlockedService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())

	r := mux.NewRouter()
	staff := r.PathPrefix("/api/v1/staff").Subrouter()
	staff.Use(middleware.Auth, middleware.RequireStaff)
	staff.HandleFunc("/blocked-intervals", h.HandleCreate).Methods(http.MethodPost)
	staff.HandleFunc("/blocked-intervals", h.HandleList).Methods(http.MethodGet)
	staff.HandleFunc("/blocked-intervals/{intervalId}", h.HandleDelete).Methods(http.MethodDelete)
	return r
}

func staffRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "1")
	req.Header.Set(middleware.HeaderUserRole, "staff")
	return req
}

func TestHandleCreate_ReportsOverlappingBookings(t *testing.T) {
	svc := new(mockBlockedService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(r *models.CreateBlockedRequest) bool {
		return r.Date.Equal(time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)) &&
			r.StartTime == "12:00" && r.EndTime == "14:00"
	})).Return(&models.BlockedResponse{
		ID:                    3,
		Date:                  "2030-06-03",
		StartTime:             "12:00",
		EndTime:               "14:00",
		OverlappingBookingIDs: []int64{11, 12},
	}, nil)

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, staffRequest(http.MethodPost, "/api/v1/staff/blocked-intervals",
		`{"date":"2030-06-03","startTime":"12:00","endTime":"14:00"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.BlockedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int64{11, 12}, resp.OverlappingBookingIDs)
	svc.AssertExpectations(t)
}

func TestHandleCreate_Errors(t *testing.T) {
	t.Run("customer is forbidden", func(t *testing.T) {
		svc := new(mockBlockedService)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/staff/blocked-intervals",
			strings.NewReader(`{"date":"2030-06-03","startTime":"12:00","endTime":"14:00"}`))
		req.Header.Set(middleware.HeaderUserID, "5")

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation error from service", func(t *testing.T) {
		svc := new(mockBlockedService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, blocked.ErrInvalidInput)

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, staffRequest(http.MethodPost, "/api/v1/staff/blocked-intervals",
			`{"date":"2030-06-03","startTime":"14:00","endTime":"12:00"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing end time", func(t *testing.T) {
		svc := new(mockBlockedService)

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, staffRequest(http.MethodPost, "/api/v1/staff/blocked-intervals",
			`{"date":"2030-06-03","startTime":"12:00"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestHandleList(t *testing.T) {
	t.Run("period required", func(t *testing.T) {
		svc := new(mockBlockedService)

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, staffRequest(http.MethodGet, "/api/v1/staff/blocked-intervals?from=2030-06-01", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		svc := new(mockBlockedService)
		svc.On("List", mock.Anything, mock.Anything).
			Return(&models.BlockedListResponse{Intervals: []models.BlockedResponse{{ID: 1}}}, nil)

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, staffRequest(http.MethodGet,
			"/api/v1/staff/blocked-intervals?from=2030-06-01&to=2030-06-30", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"intervals"`)
	})
}

func TestHandleDelete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "not found", err: blocked.ErrIntervalNotFound, wantStatus: http.StatusNotFound},
		{name: "storage failure", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockBlockedService)
			svc.On("Delete", mock.Anything, int64(9)).Return(tt.err)

			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, staffRequest(http.MethodDelete, "/api/v1/staff/blocked-intervals/9", ""))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
