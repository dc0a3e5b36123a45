package create_booking

import (
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrValidation)

	// ErrDateNotBookable возвращается, когда дата раньше today + leadDays или время уже прошло
	ErrDateNotBookable = fmt.Errorf("%w: create_booking: date is not bookable", domain.ErrValidation)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: create_booking: service not found", domain.ErrNotFound)

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен
	ErrSlotNotAvailable = fmt.Errorf("%w: create_booking: slot is not available", domain.ErrSlotUnavailable)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: create_booking: internal error", domain.ErrStorage)
)
