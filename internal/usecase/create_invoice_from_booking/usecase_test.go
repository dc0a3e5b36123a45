package create_invoice_from_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
	"github.com/m04kA/SkinStudio-BookingService/pkg/ptr"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

type mockBookings struct{ mock.Mock }

func (m *mockBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInvoices struct{ mock.Mock }

func (m *mockInvoices) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockInvoices) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, inv)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	inv.ID = 10
	return inv, nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type noMetrics struct{}

func (noMetrics) IncInvoiceCreated(string) {}

func completedBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              5,
		ServiceID:       1,
		BookingDate:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:       types.MustTimeString("10:00"),
		EndTime:         types.MustTimeString("11:00"),
		DurationMinutes: 60,
		Status:          status,
		Customer:        domain.Customer{Guest: &domain.GuestContact{Name: "Anna", Email: "anna@example.com"}},
		ServiceName:     "Hydrafacial",
		ServicePrice:    decimal.RequireFromString("120.00"),
	}
}

func newUseCase(bookings *mockBookings, invoices *mockInvoices) *UseCase {
	policy := domain.BillingPolicy{TaxRate: decimal.RequireFromString("0.2"), DueDays: 14}
	uc := NewUseCase(bookings, invoices, inlineTx{}, policy, time.UTC, noMetrics{}, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_FromCompletedBooking(t *testing.T) {
	bookings := &mockBookings{}
	invoices := &mockInvoices{}
	bookings.On("GetByID", mock.Anything, int64(5)).Return(completedBooking(domain.StatusCompleted), nil)
	invoices.On("NextNumber", mock.Anything).Return("INV-000042", nil)
	invoices.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := newUseCase(bookings, invoices).Execute(context.Background(), &Request{
		BookingID: 5,
		ExtraItems: []domain.LineItem{
			{Name: "Take-home serum", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
		},
	})
	require.NoError(t, err)

	inv := resp.Invoice
	assert.Equal(t, "INV-000042", inv.Number)
	assert.Equal(t, domain.InvoicePending, inv.Status)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Hydrafacial", inv.Items[0].Name)
	assert.Equal(t, 1, inv.Items[0].Position)
	assert.Equal(t, "2025-03-03 10:00-11:00", *inv.Items[0].Description)
	assert.Equal(t, 2, inv.Items[1].Position)
	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("145.00")))
	assert.True(t, inv.TaxAmount.Equal(decimal.RequireFromString("29.00")))
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("174.00")))
	assert.Equal(t, "Anna", inv.Customer.Name)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), inv.DueDate)
	assert.Equal(t, int64(5), *inv.BookingID)
}

func TestExecute_InvalidSource(t *testing.T) {
	noName := completedBooking(domain.StatusCompleted)
	noName.ServiceName = " "

	noCustomer := completedBooking(domain.StatusCompleted)
	noCustomer.Customer = domain.Customer{Guest: &domain.GuestContact{Name: "Anna"}}

	tests := []struct {
		name    string
		booking *domain.Booking
	}{
		{name: "подтверждённое бронирование", booking: completedBooking(domain.StatusConfirmed)},
		{name: "ожидающее бронирование", booking: completedBooking(domain.StatusPending)},
		{name: "отменённое бронирование", booking: completedBooking(domain.StatusCancelled)},
		{name: "без названия услуги", booking: noName},
		{name: "гость без email", booking: noCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &mockBookings{}
			invoices := &mockInvoices{}
			bookings.On("GetByID", mock.Anything, int64(5)).Return(tt.booking, nil)

			_, err := newUseCase(bookings, invoices).Execute(context.Background(), &Request{BookingID: 5})
			assert.ErrorIs(t, err, ErrInvalidSourceBooking)
			assert.ErrorIs(t, err, domain.ErrInvalidSourceBooking)
			invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_AdditionalInvoiceForCompletedBooking(t *testing.T) {
	bookings := &mockBookings{}
	invoices := &mockInvoices{}
	bookings.On("GetByID", mock.Anything, int64(5)).Return(completedBooking(domain.StatusCompleted), nil)
	invoices.On("NextNumber", mock.Anything).Return("INV-000001", nil).Once()
	invoices.On("NextNumber", mock.Anything).Return("INV-000002", nil).Once()
	invoices.On("Create", mock.Anything, mock.Anything).Return(nil)
	uc := newUseCase(bookings, invoices)

	first, err := uc.Execute(context.Background(), &Request{BookingID: 5})
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", first.Invoice.Number)

	second, err := uc.Execute(context.Background(), &Request{
		BookingID:  5,
		ExtraItems: []domain.LineItem{{Name: "Serum", Quantity: 1, UnitPrice: decimal.RequireFromString("30.00")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", second.Invoice.Number)
	assert.Equal(t, int64(5), *second.Invoice.BookingID)
	assert.Equal(t, domain.InvoicePending, second.Invoice.Status)
	require.Len(t, second.Invoice.Items, 2)
	assert.True(t, second.Invoice.Total.Equal(decimal.RequireFromString("180.00")))
	invoices.AssertNumberOfCalls(t, "Create", 2)
}

func TestExecute_Errors(t *testing.T) {
	bookings := &mockBookings{}
	invoices := &mockInvoices{}
	bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, fmt.Errorf("%w: GetByID", bookingRepo.ErrBookingNotFound))
	uc := newUseCase(bookings, invoices)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 404})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookingID:  5,
		ExtraItems: []domain.LineItem{{Name: "x", Quantity: 1, UnitPrice: decimal.RequireFromString("-1")}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 5, Notes: ptr.Ptr(string(make([]byte, 501)))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
