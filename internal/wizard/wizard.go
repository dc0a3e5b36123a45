// Package wizard описывает диалог бронирования как конечный автомат.
// Transition чистая функция: слой представления хранит State и передает события
package wizard

import (
	"errors"
	"fmt"
)

// Step текущий шаг диалога бронирования
type Step string

const (
	StepChoosingPath        Step = "choosing_path"
	StepCollectingGuestInfo Step = "collecting_guest_info"
	StepSelectingService    Step = "selecting_service"
	StepSelectingSlot       Step = "selecting_slot"
	StepCollectingPayment   Step = "collecting_payment"
	StepConfirming          Step = "confirming"
	StepDone                Step = "done"
)

// Path способ, которым клиент себя идентифицирует
type Path string

const (
	PathUnset   Path = ""
	PathAccount Path = "account"
	PathGuest   Path = "guest"
)

// Event событие, переводящее диалог вперед или назад
type Event string

const (
	EventChooseAccount    Event = "choose_account"
	EventChooseGuest      Event = "choose_guest"
	EventGuestInfoEntered Event = "guest_info_entered"
	EventServiceSelected  Event = "service_selected"
	EventSlotSelected     Event = "slot_selected"
	EventPaymentEntered   Event = "payment_entered"
	EventConfirmed        Event = "confirmed"
	EventSlotTaken        Event = "slot_taken"
	EventBack             Event = "back"
	EventRestart          Event = "restart"
)

var (
	// ErrUnexpectedEvent событие не допускается на текущем шаге
	ErrUnexpectedEvent = errors.New("wizard: unexpected event")

	// ErrInvalidState состояние недостижимо ни одной последовательностью событий
	ErrInvalidState = errors.New("wizard: invalid state")
)

// State снимок состояния диалога
type State struct {
	Step Step
	Path Path
}

// Initial начальное состояние нового диалога
func Initial() State {
	return State{Step: StepChoosingPath}
}

// IsTerminal диалог завершен
func (s State) IsTerminal() bool {
	return s.Step == StepDone
}

// Validate проверяет согласованность шага и пути
func (s State) Validate() error {
	switch s.Step {
	case StepChoosingPath:
		if s.Path != PathUnset {
			return fmt.Errorf("%w: path is chosen in %s", ErrInvalidState, s.Step)
		}
	case StepCollectingGuestInfo, StepCollectingPayment:
		if s.Path != PathGuest {
			return fmt.Errorf("%w: %s is a guest step", ErrInvalidState, s.Step)
		}
	case StepSelectingService, StepSelectingSlot, StepConfirming, StepDone:
		if s.Path != PathAccount && s.Path != PathGuest {
			return fmt.Errorf("%w: %s requires a path", ErrInvalidState, s.Step)
		}
	default:
		return fmt.Errorf("%w: unknown step %q", ErrInvalidState, s.Step)
	}
	return nil
}

// Transition возвращает следующее состояние. Входное состояние не изменяется
func Transition(s State, e Event) (State, error) {
	if err := s.Validate(); err != nil {
		return s, err
	}
	if e == EventRestart {
		return Initial(), nil
	}

	next := s
	switch s.Step {
	case StepChoosingPath:
		switch e {
		case EventChooseAccount:
			next = State{Step: StepSelectingService, Path: PathAccount}
		case EventChooseGuest:
			next = State{Step: StepCollectingGuestInfo, Path: PathGuest}
		}

	case StepCollectingGuestInfo:
		switch e {
		case EventGuestInfoEntered:
			next.Step = StepSelectingService
		case EventBack:
			next = Initial()
		}

	case StepSelectingService:
		switch e {
		case EventServiceSelected:
			next.Step = StepSelectingSlot
		case EventBack:
			if s.Path == PathGuest {
				next.Step = StepCollectingGuestInfo
			} else {
				next = Initial()
			}
		}

	case StepSelectingSlot:
		switch e {
		case EventSlotSelected:
			if s.Path == PathGuest {
				next.Step = StepCollectingPayment
			} else {
				next.Step = StepConfirming
			}
		case EventBack:
			next.Step = StepSelectingService
		}

	case StepCollectingPayment:
		switch e {
		case EventPaymentEntered:
			next.Step = StepConfirming
		case EventBack:
			next.Step = StepSelectingSlot
		}

	case StepConfirming:
		switch e {
		case EventConfirmed:
			next.Step = StepDone
		case EventSlotTaken:
			next.Step = StepSelectingSlot
		case EventBack:
			if s.Path == PathGuest {
				next.Step = StepCollectingPayment
			} else {
				next.Step = StepSelectingSlot
			}
		}
	}

	if next == s {
		return s, fmt.Errorf("%w: %s in %s", ErrUnexpectedEvent, e, s.Step)
	}
	return next, nil
}

// Run применяет события по порядку и останавливается на первом отклоненном
func Run(s State, events ...Event) (State, error) {
	for _, e := range events {
		next, err := Transition(s, e)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}
