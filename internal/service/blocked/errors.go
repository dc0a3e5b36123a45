package blocked

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrIntervalNotFound возвращается, когда блокировка не найдена
	ErrIntervalNotFound = fmt.Errorf("%w: blocked: blocked interval not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: blocked: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: blocked: internal error", domain.ErrStorage)
)
