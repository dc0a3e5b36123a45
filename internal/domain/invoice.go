package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoicePending:   {InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceSent:      {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:   {InvoicePaid, InvoiceCancelled},
	InvoicePaid:      {InvoicePending},
	InvoiceCancelled: {InvoicePending},
}

// IsValid returns true for a known status
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows s -> to
func (s InvoiceStatus) CanTransitionTo(to InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsReactivation reports whether s -> to reopens a settled invoice
func (s InvoiceStatus) IsReactivation(to InvoiceStatus) bool {
	return to == InvoicePending && (s == InvoicePaid || s == InvoiceCancelled)
}

// IsOpen returns true while the invoice awaits payment
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoicePending || s == InvoiceSent || s == InvoiceOverdue
}

// LineItem single billed position
type LineItem struct {
	ID          int64
	Position    int
	Name        string
	Description *string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Amount quantity × unit price, not rounded
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Validate checks item invariants
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return fmt.Errorf("%w: line item name is required", ErrValidation)
	}
	if len(li.Name) > MaxLineItemNameLength {
		return fmt.Errorf("%w: line item name is too long", ErrValidation)
	}
	if li.Quantity < 1 || li.Quantity > MaxLineItemQuantity {
		return fmt.Errorf("%w: line item quantity must be between 1 and %d", ErrValidation, MaxLineItemQuantity)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: line item unit price must not be negative", ErrValidation)
	}
	if !li.UnitPrice.Equal(li.UnitPrice.Truncate(2)) {
		return fmt.Errorf("%w: line item unit price has more than 2 decimal places", ErrValidation)
	}
	return nil
}

// InvoiceCustomer billed party
type InvoiceCustomer struct {
	UserID *int64
	Name   string
	Email  string
}

// Validate requires either a user id or a name with an e-mail
func (c InvoiceCustomer) Validate() error {
	if c.UserID != nil {
		return nil
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: customer requires a user id or a name and an email", ErrValidation)
	}
	return nil
}

// InvoiceCustomerFromBooking converts a booking customer into the billed party
func InvoiceCustomerFromBooking(c Customer) InvoiceCustomer {
	ic := InvoiceCustomer{UserID: c.UserID}
	if c.Guest != nil {
		ic.Name = c.Guest.Name
		ic.Email = c.Guest.Email
	}
	return ic
}

// Invoice bill for one or more services
type Invoice struct {
	ID        int64
	Number    string
	BookingID *int64
	Customer  InvoiceCustomer
	Items     []LineItem

	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal

	Status    InvoiceStatus
	IssueDate time.Time
	DueDate   time.Time
	Notes     *string

	PaidAt           *time.Time
	PaymentMethod    *string
	PaymentReference *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComputeTotals subtotal = Σ qty×price, tax = subtotal×rate rounded half-up to cents,
// total = subtotal + tax
func ComputeTotals(items []LineItem, rate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}
	tax = subtotal.Mul(rate).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// Recalculate recomputes all totals from the items and renumbers positions
func (inv *Invoice) Recalculate(rate decimal.Decimal) {
	for i := range inv.Items {
		inv.Items[i].Position = i + 1
	}
	inv.TaxRate = rate
	inv.Subtotal, inv.TaxAmount, inv.Total = ComputeTotals(inv.Items, rate)
}

// ValidateItems requires at least one valid item
func (inv *Invoice) ValidateItems() error {
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: invoice requires at least one line item", ErrValidation)
	}
	for i, item := range inv.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// IsEditable only pending invoices accept edits
func (inv *Invoice) IsEditable() bool {
	return inv.Status == InvoicePending
}

// FormatInvoiceNumber formats a sequence value as an invoice number
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf(InvoiceNumberFormat, seq)
}

// PaymentDetails payment metadata recorded on the paid transition
type PaymentDetails struct {
	Method    string
	Reference *string
	PaidAt    *time.Time
}

// InvoiceStatusChange audit record of a status transition
type InvoiceStatusChange struct {
	ID               int64
	InvoiceID        int64
	FromStatus       InvoiceStatus
	ToStatus         InvoiceStatus
	ActorID          *int64
	Reason           *string
	PaymentMethod    *string
	PaymentReference *string
	ChangedAt        time.Time
}

// InvoicesFilter filter for invoice listing and export
type InvoicesFilter struct {
	Status     *InvoiceStatus
	BookingID  *int64
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	Limit      uint64
	Offset     uint64
}

// BillingPolicy tax rate and payment term applied to new invoices
type BillingPolicy struct {
	TaxRate decimal.Decimal
	DueDays int
}

// DueDate payment deadline for an invoice issued on issueDate
func (p BillingPolicy) DueDate(issueDate time.Time) time.Time {
	return issueDate.AddDate(0, 0, p.DueDays)
}
