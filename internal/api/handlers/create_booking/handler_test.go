package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	createBooking "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
	"github.com/m04kA/SkinStudio-BookingService/pkg/ptr"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createBooking.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_RegisteredUser(t *testing.T) {
	uc := new(mockUseCase)
	h := NewHandler(uc, logger.NewNop())

	date := time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.ServiceID == 7 &&
			r.Customer.UserID != nil && *r.Customer.UserID == 42 &&
			r.Customer.Guest == nil &&
			r.StartTime.String() == "10:00" &&
			r.Date.Equal(date)
	})).Return(&createBooking.Response{
		ID:              100,
		ServiceID:       7,
		BookingDate:     date,
		StartTime:       types.MustTimeString("10:00"),
		EndTime:         types.MustTimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		Customer:        domain.Customer{UserID: ptr.Ptr(int64(42))},
		ServiceName:     "Facial",
		ServicePrice:    decimal.NewFromInt(80),
	}, nil)

	rec := serve(h, `{"serviceId":7,"bookingDate":"2030-06-03","startTime":"10:00"}`,
		map[string]string{middleware.HeaderUserID: "42"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 100, body["id"])
	assert.Equal(t, "confirmed", body["status"])
	assert.Equal(t, "11:00", body["endTime"])
	uc.AssertExpectations(t)
}

func TestHandle_RequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		headers map[string]string
	}{
		{name: "malformed json", body: `{"serviceId":`},
		{name: "unknown field", body: `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"10:00","foo":1}`},
		{name: "missing service", body: `{"bookingDate":"2030-06-03","startTime":"10:00","guest":{"name":"A","email":"a@b.c"}}`},
		{name: "bad date", body: `{"serviceId":1,"bookingDate":"03.06.2030","startTime":"10:00","guest":{"name":"A","email":"a@b.c"}}`},
		{name: "anonymous without guest", body: `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"10:00"}`},
		{name: "bad guest email", body: `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"10:00","guest":{"name":"A","email":"nope"}}`},
		{
			name:    "user with guest payload",
			body:    `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"10:00","guest":{"name":"A","email":"a@b.c"}}`,
			headers: map[string]string{middleware.HeaderUserID: "5"},
		},
		{name: "bad start time", body: `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"25:00","guest":{"name":"A","email":"a@b.c"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			h := NewHandler(uc, logger.NewNop())

			rec := serve(h, tt.body, tt.headers)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: createBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{err: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{err: createBooking.ErrDateNotBookable, wantStatus: http.StatusBadRequest},
		{err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{err: fmt.Errorf("%w: db down", createBooking.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := new(mockUseCase)
			h := NewHandler(uc, logger.NewNop())
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(h, `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"10:00","guest":{"name":"Ann","email":"ann@example.com"}}`, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_GuestPaymentPassedThrough(t *testing.T) {
	uc := new(mockUseCase)
	h := NewHandler(uc, logger.NewNop())

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.Customer.Guest != nil &&
			r.Customer.Guest.Email == "ann@example.com" &&
			r.Payment != nil && r.Payment.Method == "card"
	})).Return(nil, createBooking.ErrSlotNotAvailable)

	rec := serve(h, `{"serviceId":1,"bookingDate":"2030-06-03","startTime":"10:00",`+
		`"guest":{"name":"Ann","email":"ann@example.com"},"payment":{"method":"card"}}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	uc.AssertExpectations(t)
}
