package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := validateCustomer(req.Customer); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Payment != nil {
		if req.Customer.UserID != nil {
			return fmt.Errorf("%w: payment details are accepted for guests only", ErrInvalidInput)
		}
		if strings.TrimSpace(req.Payment.Method) == "" {
			return fmt.Errorf("%w: payment method is required", ErrInvalidInput)
		}
	}

	return nil
}

// validateCustomer проверяет, что указан пользователь или полные контакты гостя
func validateCustomer(c domain.Customer) error {
	if c.UserID != nil {
		if *c.UserID <= 0 {
			return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
		}
		if c.Guest != nil {
			return fmt.Errorf("%w: guest contact must not be set for a registered user", ErrInvalidInput)
		}
		return nil
	}

	if c.Guest == nil {
		return fmt.Errorf("%w: guest contact is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(c.Guest.Name)
	if name == "" {
		return fmt.Errorf("%w: guest name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guest name must be at most %d characters", ErrInvalidInput, domain.MaxGuestNameLength)
	}
	if _, err := mail.ParseAddress(c.Guest.Email); err != nil {
		return fmt.Errorf("%w: invalid guest email: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateLeadTime проверяет, что дата не раньше today + leadDays
// и что время начала ещё не прошло
func validateLeadTime(date time.Time, start types.TimeString, now time.Time, rules *domain.CalendarRules) error {
	earliest := rules.EarliestBookableDate(now)
	if date.Before(earliest) {
		return fmt.Errorf("%w: earliest bookable date is %s", ErrDateNotBookable, earliest.Format(domain.DateFormat))
	}

	if !start.On(date, now.Location()).After(now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrDateNotBookable, start)
	}

	return nil
}

// initialStatus confirmed для зарегистрированных пользователей и гостей с оплатой
func initialStatus(req *Request) domain.BookingStatus {
	if req.Customer.UserID != nil || req.Payment != nil {
		return domain.StatusConfirmed
	}
	return domain.StatusPending
}
