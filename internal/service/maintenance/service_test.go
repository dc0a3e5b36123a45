package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance/models"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
)

type fakeCatalog struct {
	active    map[int64]bool
	setCalls  int
	existsErr error
}

func (f *fakeCatalog) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	if f.existsErr != nil {
		return nil, f.existsErr
	}
	var out []int64
	for _, id := range ids {
		if _, ok := f.active[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SetActive(_ context.Context, ids []int64, active bool) (int64, error) {
	f.setCalls++
	var changed int64
	for _, id := range ids {
		if f.active[id] != active {
			f.active[id] = active
			changed++
		}
	}
	return changed, nil
}

type fakeInvoices struct {
	invoices map[int64]*domain.Invoice
	history  []*domain.InvoiceStatusChange
}

func (f *fakeInvoices) GetOpenDueBefore(_ context.Context, date time.Time) ([]*domain.Invoice, error) {
	var out []*domain.Invoice
	for id := int64(1); id <= int64(len(f.invoices)); id++ {
		inv := f.invoices[id]
		if inv.Status.IsOpen() && inv.Status != domain.InvoiceOverdue && inv.DueDate.Before(date) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoices) UpdateStatus(_ context.Context, inv *domain.Invoice, from domain.InvoiceStatus) error {
	stored := f.invoices[inv.ID]
	if stored.Status != from {
		return errors.New("unexpected status")
	}
	stored.Status = inv.Status
	return nil
}

func (f *fakeInvoices) AddStatusChange(_ context.Context, change *domain.InvoiceStatusChange) error {
	f.history = append(f.history, change)
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics struct {
	transitions map[string]int
}

func (m *countingMetrics) IncInvoiceTransition(from, to string) {
	m.transitions[from+"->"+to]++
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func TestSetServicesActive(t *testing.T) {
	catalog := &fakeCatalog{active: map[int64]bool{1: true, 2: true, 3: false}}
	svc := NewService(catalog, &fakeInvoices{}, inlineTx{}, time.UTC, &countingMetrics{}, logger.NewNop())

	resp, err := svc.SetServicesActive(context.Background(), &models.SetServicesActiveRequest{
		ServiceIDs: []int64{1, 3},
		Active:     false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Changed)
	assert.Equal(t, 2, resp.Requested)

	// повторный запуск ничего не меняет
	resp, err = svc.SetServicesActive(context.Background(), &models.SetServicesActiveRequest{
		ServiceIDs: []int64{1, 3},
		Active:     false,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Changed)
	assert.False(t, catalog.active[1])
	assert.True(t, catalog.active[2])
}

func TestSetServicesActive_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int64
		wantErr error
	}{
		{"empty", nil, ErrInvalidInput},
		{"non-positive", []int64{1, 0}, ErrInvalidInput},
		{"duplicate", []int64{1, 1}, ErrInvalidInput},
		{"unknown", []int64{1, 42}, ErrUnknownServices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{active: map[int64]bool{1: true}}
			svc := NewService(catalog, &fakeInvoices{}, inlineTx{}, time.UTC, &countingMetrics{}, logger.NewNop())

			_, err := svc.SetServicesActive(context.Background(), &models.SetServicesActiveRequest{ServiceIDs: tt.ids})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, catalog.setCalls)
			assert.True(t, catalog.active[1])
		})
	}
}

func TestSetServicesActive_CatalogError(t *testing.T) {
	catalog := &fakeCatalog{existsErr: errors.New("db down")}
	svc := NewService(catalog, &fakeInvoices{}, inlineTx{}, time.UTC, &countingMetrics{}, logger.NewNop())

	_, err := svc.SetServicesActive(context.Background(), &models.SetServicesActiveRequest{ServiceIDs: []int64{1}})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestSweepOverdueInvoices(t *testing.T) {
	today := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeInvoices{invoices: map[int64]*domain.Invoice{
		1: {ID: 1, Status: domain.InvoicePending, DueDate: today.AddDate(0, 0, -1)},
		2: {ID: 2, Status: domain.InvoiceSent, DueDate: today.AddDate(0, 0, -10)},
		3: {ID: 3, Status: domain.InvoicePending, DueDate: today},
		4: {ID: 4, Status: domain.InvoicePaid, DueDate: today.AddDate(0, 0, -5)},
	}}
	metrics := &countingMetrics{transitions: map[string]int{}}

	svc := NewService(&fakeCatalog{}, repo, inlineTx{}, time.UTC, metrics, logger.NewNop())
	svc.timeProvider = fixedTime{t: today.Add(15 * time.Hour)}

	resp, err := svc.SweepOverdueInvoices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2030-06-10", resp.Date)
	assert.Equal(t, 2, resp.Updated)
	assert.Equal(t, []int64{1, 2}, resp.InvoiceIDs)
	assert.Equal(t, domain.InvoiceOverdue, repo.invoices[1].Status)
	assert.Equal(t, domain.InvoiceOverdue, repo.invoices[2].Status)
	assert.Equal(t, domain.InvoicePending, repo.invoices[3].Status)
	assert.Equal(t, domain.InvoicePaid, repo.invoices[4].Status)

	require.Len(t, repo.history, 2)
	assert.Equal(t, domain.InvoiceSent, repo.history[1].FromStatus)
	assert.Equal(t, overdueReason, *repo.history[1].Reason)
	assert.Equal(t, 1, metrics.transitions["pending->overdue"])
	assert.Equal(t, 1, metrics.transitions["sent->overdue"])

	// идемпотентность
	resp, err = svc.SweepOverdueInvoices(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.Updated)
	assert.Empty(t, resp.InvoiceIDs)
	assert.Len(t, repo.history, 2)
}
