package maintenance

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: maintenance: invalid input data", domain.ErrValidation)

	// ErrUnknownServices возвращается, если часть услуг не существует
	ErrUnknownServices = fmt.Errorf("%w: maintenance: unknown services", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: maintenance: internal error", domain.ErrStorage)
)
