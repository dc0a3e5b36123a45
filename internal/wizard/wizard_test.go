package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

func TestTransition_Table(t *testing.T) {
	guest := func(step Step) State { return State{Step: step, Path: PathGuest} }
	account := func(step Step) State { return State{Step: step, Path: PathAccount} }

	tests := []struct {
		name  string
		from  State
		event Event
		want  State
		ok    bool
	}{
		{"choose account", Initial(), EventChooseAccount, account(StepSelectingService), true},
		{"choose guest", Initial(), EventChooseGuest, guest(StepCollectingGuestInfo), true},
		{"guest info entered", guest(StepCollectingGuestInfo), EventGuestInfoEntered, guest(StepSelectingService), true},
		{"service selected", account(StepSelectingService), EventServiceSelected, account(StepSelectingSlot), true},
		{"account slot goes to confirm", account(StepSelectingSlot), EventSlotSelected, account(StepConfirming), true},
		{"guest slot goes to payment", guest(StepSelectingSlot), EventSlotSelected, guest(StepCollectingPayment), true},
		{"payment entered", guest(StepCollectingPayment), EventPaymentEntered, guest(StepConfirming), true},
		{"confirmed", guest(StepConfirming), EventConfirmed, guest(StepDone), true},
		{"slot taken returns to slots", account(StepConfirming), EventSlotTaken, account(StepSelectingSlot), true},

		{"back from guest info", guest(StepCollectingGuestInfo), EventBack, Initial(), true},
		{"back from account service", account(StepSelectingService), EventBack, Initial(), true},
		{"back from guest service", guest(StepSelectingService), EventBack, guest(StepCollectingGuestInfo), true},
		{"back from guest confirm", guest(StepConfirming), EventBack, guest(StepCollectingPayment), true},
		{"back from account confirm", account(StepConfirming), EventBack, account(StepSelectingSlot), true},
		{"restart from anywhere", guest(StepCollectingPayment), EventRestart, Initial(), true},
		{"restart after done", account(StepDone), EventRestart, Initial(), true},

		{"confirm from path choice", Initial(), EventConfirmed, Initial(), false},
		{"back from path choice", Initial(), EventBack, Initial(), false},
		{"payment on account path", account(StepSelectingSlot), EventPaymentEntered, account(StepSelectingSlot), false},
		{"skip slot", account(StepSelectingService), EventConfirmed, account(StepSelectingService), false},
		{"done accepts nothing", guest(StepDone), EventBack, guest(StepDone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			if tt.ok {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnexpectedEvent)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_InvalidState(t *testing.T) {
	tests := []State{
		{Step: StepCollectingPayment, Path: PathAccount},
		{Step: StepSelectingSlot},
		{Step: StepChoosingPath, Path: PathGuest},
		{Step: "somewhere"},
	}

	for _, s := range tests {
		_, err := Transition(s, EventBack)
		assert.ErrorIs(t, err, ErrInvalidState, "state %+v", s)
	}
}

// Любая последовательность событий из начального состояния оставляет диалог в согласованном состоянии
func TestTransition_ReachableStatesAreValid(t *testing.T) {
	events := []Event{
		EventChooseAccount, EventChooseGuest, EventGuestInfoEntered, EventServiceSelected,
		EventSlotSelected, EventPaymentEntered, EventConfirmed, EventSlotTaken, EventBack, EventRestart,
	}

	seen := map[State]bool{Initial(): true}
	queue := []State{Initial()}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, e := range events {
			next, err := Transition(s, e)
			if err != nil {
				assert.Equal(t, s, next)
				continue
			}
			require.NoError(t, next.Validate())
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	assert.True(t, seen[State{Step: StepDone, Path: PathGuest}])
	assert.True(t, seen[State{Step: StepDone, Path: PathAccount}])
	assert.False(t, seen[State{Step: StepCollectingPayment, Path: PathAccount}])
}

func TestRun(t *testing.T) {
	s, err := Run(Initial(), EventChooseGuest, EventGuestInfoEntered, EventServiceSelected, EventSlotSelected, EventPaymentEntered, EventConfirmed)
	require.NoError(t, err)
	assert.True(t, s.IsTerminal())

	s, err = Run(Initial(), EventChooseAccount, EventPaymentEntered)
	assert.ErrorIs(t, err, ErrUnexpectedEvent)
	assert.Equal(t, State{Step: StepSelectingService, Path: PathAccount}, s)
}

func TestDraft_BookingRequest(t *testing.T) {
	userID := int64(42)
	date := time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)
	base := Draft{ServiceID: 1, Date: date, StartTime: types.MustTimeString("10:00")}

	t.Run("account", func(t *testing.T) {
		d := base
		d.UserID = &userID

		req, err := d.BookingRequest(State{Step: StepConfirming, Path: PathAccount})
		require.NoError(t, err)
		assert.Equal(t, &userID, req.Customer.UserID)
		assert.Nil(t, req.Payment)
	})

	t.Run("guest", func(t *testing.T) {
		d := base
		d.Guest = &domain.GuestContact{Name: "Anna", Email: "anna@example.com"}
		d.Payment = &create_booking.Payment{Method: "card"}

		req, err := d.BookingRequest(State{Step: StepConfirming, Path: PathGuest})
		require.NoError(t, err)
		assert.True(t, req.Customer.IsGuest())
		assert.Equal(t, "anna@example.com", req.Customer.Guest.Email)
		assert.Equal(t, "card", req.Payment.Method)
	})

	t.Run("guest without payment", func(t *testing.T) {
		d := base
		d.Guest = &domain.GuestContact{Name: "Anna", Email: "anna@example.com"}

		_, err := d.BookingRequest(State{Step: StepConfirming, Path: PathGuest})
		assert.ErrorIs(t, err, ErrIncompleteDraft)
	})

	t.Run("not confirming", func(t *testing.T) {
		d := base
		d.UserID = &userID

		_, err := d.BookingRequest(State{Step: StepSelectingSlot, Path: PathAccount})
		assert.ErrorIs(t, err, ErrUnexpectedEvent)
	})

	t.Run("missing slot", func(t *testing.T) {
		d := Draft{ServiceID: 1, UserID: &userID}

		_, err := d.BookingRequest(State{Step: StepConfirming, Path: PathAccount})
		assert.ErrorIs(t, err, ErrIncompleteDraft)
	})
}
