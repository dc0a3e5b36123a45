package availability

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// ErrInvalidInput возвращается при некорректной длительности услуги или шаге сетки
var ErrInvalidInput = fmt.Errorf("%w: availability: invalid input", domain.ErrValidation)
