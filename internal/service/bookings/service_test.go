package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/bookings/models"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
	"github.com/m04kA/SkinStudio-BookingService/pkg/ptr"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

type memoryRepo struct {
	bookings map[int64]*domain.Booking
	// conflictOnWrite имитирует параллельное изменение статуса
	conflictOnWrite bool
	now             time.Time
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: GetByID", bookingRepo.ErrBookingNotFound)
	}
	copied := *b
	return &copied, nil
}

func (m *memoryRepo) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if filter.UserID != nil && (b.Customer.UserID == nil || *b.Customer.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	b := m.bookings[id]
	if m.conflictOnWrite || b.Status != from {
		return fmt.Errorf("%w: UpdateStatus", bookingRepo.ErrStatusConflict)
	}
	b.Status = to
	if to == domain.StatusCompleted {
		b.CompletedAt = ptr.Ptr(m.now)
	}
	return nil
}

func (m *memoryRepo) Cancel(_ context.Context, id int64, from domain.BookingStatus, by domain.Role, reason *string) error {
	b := m.bookings[id]
	if m.conflictOnWrite || b.Status != from {
		return fmt.Errorf("%w: Cancel", bookingRepo.ErrStatusConflict)
	}
	b.Status = domain.StatusCancelled
	b.CancelledBy = &by
	b.CancellationReason = reason
	b.CancelledAt = ptr.Ptr(m.now)
	return nil
}

type fakeCalendar struct{}

func (fakeCalendar) GetRules(context.Context) (*domain.CalendarRules, error) {
	rules := domain.DefaultCalendarRules()
	return &rules, nil
}

func (fakeCalendar) Location() *time.Location { return time.UTC }

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type transitions map[string]int

func (t transitions) IncBookingTransition(to, actor string) { t[to+"/"+actor]++ }

var (
	customer = domain.Actor{UserID: ptr.Ptr(int64(42)), Role: domain.RoleCustomer}
	stranger = domain.Actor{UserID: ptr.Ptr(int64(7)), Role: domain.RoleCustomer}
	staff    = domain.Actor{UserID: ptr.Ptr(int64(1)), Role: domain.RoleStaff}
)

// бронирование в понедельник 3 марта 2025 в 10:00
func newBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		ServiceID:       1,
		BookingDate:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:       types.MustTimeString("10:00"),
		EndTime:         types.MustTimeString("11:00"),
		DurationMinutes: 60,
		Status:          status,
		Customer:        domain.Customer{UserID: ptr.Ptr(int64(42))},
		ServiceName:     "Facial",
	}
}

func newService(now time.Time, bookings ...*domain.Booking) (*Service, *memoryRepo, transitions) {
	repo := &memoryRepo{bookings: map[int64]*domain.Booking{}, now: now}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	metrics := transitions{}
	svc := NewService(repo, fakeCalendar{}, inlineTx{}, metrics, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}
	return svc, repo, metrics
}

func TestCancel_WindowCustomerVsStaff(t *testing.T) {
	twoHoursBefore := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	svc, repo, metrics := newService(twoHoursBefore, newBooking(1, domain.StatusConfirmed))

	_, err := svc.Cancel(context.Background(), 1, customer, ptr.Ptr("changed my mind"))
	assert.ErrorIs(t, err, ErrCancellationWindowExpired)
	assert.ErrorIs(t, err, domain.ErrCancellationWindowExpired)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)

	resp, err := svc.CancelByStaff(context.Background(), 1, staff, ptr.Ptr("therapist is ill"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledBy)
	assert.Equal(t, "staff", *resp.CancelledBy)
	assert.Equal(t, 1, metrics["cancelled/staff"])
}

func TestCancel_CustomerInsideWindow(t *testing.T) {
	dayBefore := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, metrics := newService(dayBefore, newBooking(1, domain.StatusPending))

	resp, err := svc.Cancel(context.Background(), 1, customer, ptr.Ptr("  "))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Nil(t, resp.CancellationReason, "blank reason is not stored")
	assert.Equal(t, 1, metrics["cancelled/customer"])
}

func TestCancel_ExactlyAtWindowBoundary(t *testing.T) {
	boundary := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC) // ровно 24 часа до начала
	svc, _, _ := newService(boundary, newBooking(1, domain.StatusConfirmed))

	_, err := svc.Cancel(context.Background(), 1, customer, nil)
	assert.ErrorIs(t, err, ErrCancellationWindowExpired)
}

func TestCancel_Rejections(t *testing.T) {
	dayBefore := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	guestBooking := newBooking(3, domain.StatusPending)
	guestBooking.Customer = domain.Customer{Guest: &domain.GuestContact{Name: "Anna", Email: "Anna@Example.com"}}

	svc, _, _ := newService(dayBefore,
		newBooking(1, domain.StatusConfirmed),
		newBooking(2, domain.StatusCompleted),
		guestBooking,
	)

	_, err := svc.Cancel(context.Background(), 1, stranger, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Cancel(context.Background(), 2, customer, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.CancelByStaff(context.Background(), 2, staff, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.CancelByStaff(context.Background(), 1, customer, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Cancel(context.Background(), 99, customer, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// гость определяется по email без учёта регистра
	_, err = svc.Cancel(context.Background(), 3, domain.Actor{Role: domain.RoleCustomer, Email: "anna@example.com"}, nil)
	assert.NoError(t, err)
}

func TestLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	svc, _, metrics := newService(now, newBooking(1, domain.StatusPending))
	ctx := context.Background()

	_, err := svc.Complete(ctx, 1, staff)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot be completed")

	resp, err := svc.Confirm(ctx, 1, staff)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	_, err = svc.Confirm(ctx, 1, staff)
	assert.ErrorIs(t, err, ErrInvalidTransition, "confirmed twice")

	resp, err = svc.Complete(ctx, 1, staff)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.NotNil(t, resp.CompletedAt)

	_, err = svc.CancelByStaff(ctx, 1, staff, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition, "completed is terminal")

	_, err = svc.Complete(ctx, 1, customer)
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.Equal(t, 1, metrics["confirmed/staff"])
	assert.Equal(t, 1, metrics["completed/staff"])
}

func TestTransition_ConcurrentChange(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	svc, repo, _ := newService(now, newBooking(1, domain.StatusConfirmed))
	repo.conflictOnWrite = true

	_, err := svc.Complete(context.Background(), 1, staff)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetByID_Access(t *testing.T) {
	svc, _, _ := newService(time.Now(), newBooking(1, domain.StatusConfirmed))

	_, err := svc.GetByID(context.Background(), 1, customer)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 1, staff)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 1, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 2, staff)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList(t *testing.T) {
	other := newBooking(2, domain.StatusCancelled)
	other.Customer = domain.Customer{UserID: ptr.Ptr(int64(7))}
	svc, _, _ := newService(time.Now(), newBooking(1, domain.StatusConfirmed), other)

	resp, err := svc.GetUserBookings(context.Background(), 42, nil)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.List(context.Background(), &models.ListBookingsRequest{StartDate: &from, EndDate: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
