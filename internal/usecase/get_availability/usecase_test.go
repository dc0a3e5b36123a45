package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeCalendar struct {
	rules *domain.CalendarRules
}

func (f *fakeCalendar) GetRules(context.Context) (*domain.CalendarRules, error) { return f.rules, nil }
func (f *fakeCalendar) Location() *time.Location                                 { return time.UTC }

type fakeBlocked struct {
	intervals []*domain.BlockedInterval
	calls     int
}

func (f *fakeBlocked) GetByDate(context.Context, time.Time) ([]*domain.BlockedInterval, error) {
	f.calls++
	return f.intervals, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
	err      error
	calls    int
}

func (f *fakeBookings) GetActiveByDate(context.Context, time.Time) ([]*domain.Booking, error) {
	f.calls++
	return f.bookings, f.err
}

// воскресенье, 2 марта 2025
var sunday = time.Date(2025, 3, 2, 15, 0, 0, 0, time.UTC)

type fixture struct {
	uc       *UseCase
	blocked  *fakeBlocked
	bookings *fakeBookings
}

func newFixture() *fixture {
	rules := domain.DefaultCalendarRules()
	rules.Hours[time.Monday] = domain.DayHours{Open: types.MustTimeString("09:00"), Close: types.MustTimeString("18:00")}

	catalog := &fakeCatalog{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Facial", DurationMinutes: 60, Price: decimal.NewFromInt(80), IsActive: true},
		2: {ID: 2, Name: "Retired peel", DurationMinutes: 30, Price: decimal.NewFromInt(40), IsActive: false},
	}}
	blocked := &fakeBlocked{}
	bookings := &fakeBookings{bookings: []*domain.Booking{
		{ID: 7, StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00"), Status: domain.StatusConfirmed},
	}}

	uc := NewUseCase(catalog, &fakeCalendar{rules: &rules}, blocked, bookings, logger.NewNop())
	uc.timeProvider = fixedTime{now: sunday}
	return &fixture{uc: uc, blocked: blocked, bookings: bookings}
}

func TestExecute_Monday(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Date:      time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		ServiceID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Facial", resp.ServiceName)
	require.Len(t, resp.Slots, 14)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "10:00", resp.Slots[0].EndTime.String())
	assert.Equal(t, "11:00", resp.Slots[1].StartTime.String())
	assert.Equal(t, "17:00", resp.Slots[13].StartTime.String())
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Date:      time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), // вторник
		ServiceID: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
	assert.Zero(t, f.blocked.calls)
	assert.Zero(t, f.bookings.calls)
}

func TestExecute_LeadTime(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{Date: sunday, ServiceID: 1})
	assert.ErrorIs(t, err, ErrDateNotBookable)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(context.Background(), &Request{Date: sunday.AddDate(0, 0, -7), ServiceID: 1})
	assert.ErrorIs(t, err, ErrDateNotBookable)
}

func TestExecute_Errors(t *testing.T) {
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *Request
		prepare func(f *fixture)
		wantErr error
	}{
		{name: "нулевой serviceID", req: &Request{Date: monday}, wantErr: ErrInvalidInput},
		{name: "нет даты", req: &Request{ServiceID: 1}, wantErr: ErrInvalidInput},
		{name: "услуга не найдена", req: &Request{Date: monday, ServiceID: 99}, wantErr: ErrServiceNotFound},
		{name: "услуга неактивна", req: &Request{Date: monday, ServiceID: 2}, wantErr: ErrServiceNotFound},
		{
			name:    "ошибка хранилища",
			req:     &Request{Date: monday, ServiceID: 1},
			prepare: func(f *fixture) { f.bookings.err = errors.New("db is down") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
