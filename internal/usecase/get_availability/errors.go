package get_availability

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get_availability: invalid input data", domain.ErrValidation)

	// ErrDateNotBookable возвращается, когда дата раньше today + leadDays
	ErrDateNotBookable = fmt.Errorf("%w: get_availability: date is not bookable", domain.ErrValidation)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: get_availability: service not found", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: get_availability: internal error", domain.ErrStorage)
)
