package create_invoice_from_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	for i, item := range req.ExtraItems {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: extra item %d: %v", ErrInvalidInput, i+1, err)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSourceBooking бронирование должно быть завершено, с известным клиентом и услугой
func validateSourceBooking(b *domain.Booking) error {
	if b.Status != domain.StatusCompleted {
		return fmt.Errorf("%w: booking is %s, expected %s", ErrInvalidSourceBooking, b.Status, domain.StatusCompleted)
	}
	if !b.Customer.IsResolvable() {
		return fmt.Errorf("%w: booking has no billable customer", ErrInvalidSourceBooking)
	}
	if strings.TrimSpace(b.ServiceName) == "" {
		return fmt.Errorf("%w: booking has no service name", ErrInvalidSourceBooking)
	}
	return nil
}

// serviceLineItem первая позиция счета из снимка услуги
func serviceLineItem(b *domain.Booking) domain.LineItem {
	description := fmt.Sprintf("%s %s-%s", b.BookingDate.Format(domain.DateFormat), b.StartTime, b.EndTime)
	return domain.LineItem{
		Name:        b.ServiceName,
		Description: &description,
		Quantity:    1,
		UnitPrice:   b.ServicePrice,
	}
}
