package domain

import "time"

// Default calendar values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultLeadDays               = 1
	DefaultCancellationWindow     = 24 * time.Hour
	DefaultInvoiceDueDays         = 14
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MaxLeadDays                 = 365
	MaxCancellationWindowHours  = 24 * 14
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxGuestNameLength          = 200
	MaxLineItemNameLength       = 255
	MaxLineItemQuantity         = 10000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InvoiceNumberFormat sequential invoice number, e.g. INV-000001
const InvoiceNumberFormat = "INV-%06d"

// BlockingStatuses statuses whose bookings occupy the calendar
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
