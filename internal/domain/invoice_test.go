package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []LineItem
		rate         string
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "одна позиция без налога",
			items:        []LineItem{{Name: "Facial", Quantity: 1, UnitPrice: dec("80.00")}},
			rate:         "0",
			wantSubtotal: "80",
			wantTax:      "0",
			wantTotal:    "80",
		},
		{
			name: "несколько позиций с налогом",
			items: []LineItem{
				{Name: "Facial", Quantity: 1, UnitPrice: dec("80.00")},
				{Name: "Serum", Quantity: 2, UnitPrice: dec("12.50")},
			},
			rate:         "0.2",
			wantSubtotal: "105",
			wantTax:      "21",
			wantTotal:    "126",
		},
		{
			name:         "округление половины вверх",
			items:        []LineItem{{Name: "Mask", Quantity: 1, UnitPrice: dec("0.05")}},
			rate:         "0.5",
			wantSubtotal: "0.05",
			wantTax:      "0.03",
			wantTotal:    "0.08",
		},
		{
			name:         "округление вниз",
			items:        []LineItem{{Name: "Peel", Quantity: 3, UnitPrice: dec("33.33")}},
			rate:         "0.07",
			wantSubtotal: "99.99",
			wantTax:      "7",
			wantTotal:    "106.99",
		},
		{
			name:         "пустой список",
			items:        nil,
			rate:         "0.2",
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, tax, total := ComputeTotals(tt.items, dec(tt.rate))
			assert.True(t, subtotal.Equal(dec(tt.wantSubtotal)), "subtotal %s", subtotal)
			assert.True(t, tax.Equal(dec(tt.wantTax)), "tax %s", tax)
			assert.True(t, total.Equal(dec(tt.wantTotal)), "total %s", total)
		})
	}
}

func TestInvoice_RecalculateAfterEdits(t *testing.T) {
	rate := dec("0.2")
	inv := &Invoice{
		Items: []LineItem{{Name: "Facial", Quantity: 1, UnitPrice: dec("80.00")}},
	}
	inv.Recalculate(rate)
	assert.True(t, inv.Total.Equal(dec("96")))

	inv.Items = append(inv.Items, LineItem{Name: "Serum", Quantity: 3, UnitPrice: dec("9.99")})
	inv.Recalculate(rate)

	assert.True(t, inv.Subtotal.Equal(dec("109.97")))
	assert.True(t, inv.TaxAmount.Equal(dec("21.99")))
	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.TaxAmount)))
	assert.Equal(t, 2, inv.Items[1].Position)

	inv.Items = inv.Items[1:]
	inv.Recalculate(rate)
	assert.True(t, inv.Subtotal.Equal(dec("29.97")))
	assert.Equal(t, 1, inv.Items[0].Position)
}

func TestLineItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    LineItem
		wantErr bool
	}{
		{name: "валидная позиция", item: LineItem{Name: "Facial", Quantity: 1, UnitPrice: dec("80.00")}},
		{name: "бесплатная позиция", item: LineItem{Name: "Consultation", Quantity: 1, UnitPrice: decimal.Zero}},
		{name: "цена с лишними нулями", item: LineItem{Name: "Mask", Quantity: 1, UnitPrice: dec("1.500")}},
		{name: "пустое имя", item: LineItem{Name: " ", Quantity: 1, UnitPrice: dec("1")}, wantErr: true},
		{name: "нулевое количество", item: LineItem{Name: "Mask", Quantity: 0, UnitPrice: dec("1")}, wantErr: true},
		{name: "отрицательная цена", item: LineItem{Name: "Mask", Quantity: 1, UnitPrice: dec("-1")}, wantErr: true},
		{name: "три знака после запятой", item: LineItem{Name: "Mask", Quantity: 1, UnitPrice: dec("1.005")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInvoiceStatus_Transitions(t *testing.T) {
	all := []InvoiceStatus{InvoicePending, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled}

	allowed := map[InvoiceStatus]map[InvoiceStatus]bool{
		InvoicePending:   {InvoiceSent: true, InvoicePaid: true, InvoiceOverdue: true, InvoiceCancelled: true},
		InvoiceSent:      {InvoicePaid: true, InvoiceOverdue: true, InvoiceCancelled: true},
		InvoiceOverdue:   {InvoicePaid: true, InvoiceCancelled: true},
		InvoicePaid:      {InvoicePending: true},
		InvoiceCancelled: {InvoicePending: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, InvoicePaid.IsReactivation(InvoicePending))
	assert.True(t, InvoiceCancelled.IsReactivation(InvoicePending))
	assert.False(t, InvoiceSent.IsReactivation(InvoicePending))
	assert.False(t, InvoiceStatus("draft").IsValid())
}

func TestInvoice_ValidateItems(t *testing.T) {
	inv := &Invoice{}
	assert.ErrorIs(t, inv.ValidateItems(), ErrValidation)

	inv.Items = []LineItem{{Name: "Facial", Quantity: 1, UnitPrice: dec("80")}, {Name: "", Quantity: 1}}
	err := inv.ValidateItems()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "item 2")
}

func TestInvoiceCustomer(t *testing.T) {
	userID := int64(7)
	assert.NoError(t, InvoiceCustomer{UserID: &userID}.Validate())
	assert.NoError(t, InvoiceCustomer{Name: "Ann", Email: "ann@example.com"}.Validate())
	assert.ErrorIs(t, InvoiceCustomer{Name: "Ann"}.Validate(), ErrValidation)

	ic := InvoiceCustomerFromBooking(Customer{Guest: &GuestContact{Name: "Ann", Email: "ann@example.com"}})
	assert.Nil(t, ic.UserID)
	assert.Equal(t, "Ann", ic.Name)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-000001", FormatInvoiceNumber(1))
	assert.Equal(t, "INV-123456", FormatInvoiceNumber(123456))
}

func TestBillingPolicy_DueDate(t *testing.T) {
	p := BillingPolicy{TaxRate: decimal.RequireFromString("0.2"), DueDays: 14}
	issued := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), p.DueDate(issued))
}
