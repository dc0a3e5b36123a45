package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateLeadTime проверяет, что дата не раньше today + leadDays
func validateLeadTime(date, now time.Time, rules *domain.CalendarRules) error {
	earliest := rules.EarliestBookableDate(now)
	if date.Before(earliest) {
		return fmt.Errorf("%w: earliest bookable date is %s", ErrDateNotBookable, earliest.Format(domain.DateFormat))
	}
	return nil
}
