package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SkinStudio-BookingService/pkg/ptr"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

func TestBookingStatus_Transitions(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusCancelled.BlocksCalendar())
	assert.True(t, StatusPending.BlocksCalendar())
}

func TestBooking_OwnedBy(t *testing.T) {
	userBooking := &Booking{Customer: Customer{UserID: ptr.Ptr(int64(10))}}
	guestBooking := &Booking{Customer: Customer{Guest: &GuestContact{Name: "Ann", Email: "Ann@Example.com"}}}

	assert.True(t, userBooking.OwnedBy(Actor{UserID: ptr.Ptr(int64(10)), Role: RoleCustomer}))
	assert.False(t, userBooking.OwnedBy(Actor{UserID: ptr.Ptr(int64(11)), Role: RoleCustomer}))
	assert.False(t, userBooking.OwnedBy(Actor{Email: "ann@example.com"}))

	assert.True(t, guestBooking.OwnedBy(Actor{Email: "ann@example.com"}))
	assert.False(t, guestBooking.OwnedBy(Actor{Email: "bob@example.com"}))
	assert.False(t, guestBooking.OwnedBy(Actor{UserID: ptr.Ptr(int64(10))}))
}

func TestActor_String(t *testing.T) {
	assert.Equal(t, "staff:1", Actor{UserID: ptr.Ptr(int64(1)), Role: RoleStaff}.String())
	assert.Equal(t, "user:5", Actor{UserID: ptr.Ptr(int64(5)), Role: RoleCustomer}.String())
	assert.Equal(t, "guest:ann@example.com", Actor{Email: "ann@example.com", Role: RoleCustomer}.String())
	assert.Equal(t, "anonymous", Actor{Role: RoleCustomer}.String())
}

func TestBooking_StartsAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	b := &Booking{
		BookingDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:   types.MustTimeString("10:30"),
	}

	got := b.StartsAt(loc)
	assert.True(t, got.Equal(time.Date(2025, 3, 3, 10, 30, 0, 0, loc)), got.String())
}

func TestCustomer_IsResolvable(t *testing.T) {
	assert.True(t, Customer{UserID: ptr.Ptr(int64(1))}.IsResolvable())
	assert.True(t, Customer{Guest: &GuestContact{Name: "Ann", Email: "a@b.c"}}.IsResolvable())
	assert.False(t, Customer{Guest: &GuestContact{Name: "Ann"}}.IsResolvable())
	assert.False(t, Customer{}.IsResolvable())
}
