package domain

import "errors"

// Error kinds shared by every layer. Package-level errors wrap one of these,
// so handlers can map a failure to a response by kind.
var (
	ErrValidation                = errors.New("validation error")
	ErrSlotUnavailable           = errors.New("slot unavailable")
	ErrCancellationWindowExpired = errors.New("cancellation window expired")
	ErrInvalidTransition         = errors.New("invalid booking transition")
	ErrInvalidInvoiceTransition  = errors.New("invalid invoice transition")
	ErrInvalidSourceBooking      = errors.New("invalid source booking")
	ErrNotFound                  = errors.New("not found")
	ErrAccessDenied              = errors.New("access denied")
	ErrStorage                   = errors.New("storage error")
)
