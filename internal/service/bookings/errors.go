package bookings

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: bookings: booking not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("%w: bookings: access denied", domain.ErrAccessDenied)

	// ErrInvalidTransition возвращается, когда переход статуса не разрешён
	ErrInvalidTransition = fmt.Errorf("%w: bookings: transition is not allowed", domain.ErrInvalidTransition)

	// ErrCancellationWindowExpired возвращается, когда до начала осталось меньше окна отмены
	ErrCancellationWindowExpired = fmt.Errorf("%w: bookings: too late to cancel", domain.ErrCancellationWindowExpired)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: bookings: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: bookings: internal error", domain.ErrStorage)
)
