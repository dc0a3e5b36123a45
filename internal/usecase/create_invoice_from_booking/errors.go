package create_invoice_from_booking

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_invoice_from_booking: invalid input data", domain.ErrValidation)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: create_invoice_from_booking: booking not found", domain.ErrNotFound)

	// ErrInvalidSourceBooking возвращается, когда по бронированию нельзя выставить счет
	ErrInvalidSourceBooking = fmt.Errorf("%w: create_invoice_from_booking: booking cannot be invoiced", domain.ErrInvalidSourceBooking)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: create_invoice_from_booking: internal error", domain.ErrStorage)
)
