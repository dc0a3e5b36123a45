package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows s -> to
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// BlocksCalendar returns true if a booking in this status occupies its slot
func (s BookingStatus) BlocksCalendar() bool {
	return s != StatusCancelled
}

// Role of the caller
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// Actor who performs an operation. A guest has no UserID and is identified by Email.
type Actor struct {
	UserID *int64
	Role   Role
	Email  string
}

// IsStaff returns true for studio staff
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// String short label for logs: "staff:1", "user:5", "guest:ann@example.com" or "anonymous"
func (a Actor) String() string {
	switch {
	case a.IsStaff() && a.UserID != nil:
		return fmt.Sprintf("staff:%d", *a.UserID)
	case a.UserID != nil:
		return fmt.Sprintf("user:%d", *a.UserID)
	case a.Email != "":
		return "guest:" + a.Email
	default:
		return "anonymous"
	}
}

// GuestContact contact data of a customer without an account
type GuestContact struct {
	Name  string
	Email string
	Phone string
}

// Customer either a registered user or a guest
type Customer struct {
	UserID *int64
	Guest  *GuestContact
}

// IsGuest returns true when the customer has no account
func (c Customer) IsGuest() bool {
	return c.UserID == nil
}

// IsResolvable returns true when the customer can be billed
func (c Customer) IsResolvable() bool {
	if c.UserID != nil {
		return true
	}
	return c.Guest != nil && strings.TrimSpace(c.Guest.Name) != "" && strings.TrimSpace(c.Guest.Email) != ""
}

// Booking represents a service appointment
type Booking struct {
	ID          int64
	ServiceID   int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus
	Customer    Customer

	// Service snapshot taken at creation
	ServiceName     string
	ServicePrice    decimal.Decimal
	DurationMinutes int

	Notes *string

	CancellationReason *string
	CancelledBy        *Role
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the occupied range
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// StartsAt returns the absolute start in loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.StartTime.On(b.BookingDate, loc)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// OwnedBy reports whether actor is the customer of the booking
func (b *Booking) OwnedBy(actor Actor) bool {
	if b.Customer.UserID != nil {
		return actor.UserID != nil && *actor.UserID == *b.Customer.UserID
	}
	if b.Customer.Guest == nil || actor.Email == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(actor.Email), strings.TrimSpace(b.Customer.Guest.Email))
}

// BookingsFilter filter for the staff calendar listing
type BookingsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *BookingStatus
	UserID    *int64
	Limit     uint64
	Offset    uint64
}
