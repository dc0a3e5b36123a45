package calendar

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных правилах календаря
	ErrInvalidInput = fmt.Errorf("%w: calendar: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: calendar: internal error", domain.ErrStorage)
)
