package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// ErrIncompleteDraft в черновике не хватает данных для выбранного пути
var ErrIncompleteDraft = errors.New("wizard: incomplete draft")

// Draft данные, собранные по ходу диалога
type Draft struct {
	UserID    *int64
	Guest     *domain.GuestContact
	ServiceID int64
	Date      time.Time
	StartTime types.TimeString
	Payment   *create_booking.Payment
	Notes     *string
}

// BookingRequest собирает запрос на создание бронирования, когда диалог дошел до подтверждения
func (d Draft) BookingRequest(s State) (*create_booking.Request, error) {
	if s.Step != StepConfirming {
		return nil, fmt.Errorf("%w: booking is submitted from %s, not %s", ErrUnexpectedEvent, StepConfirming, s.Step)
	}
	if d.ServiceID <= 0 || d.Date.IsZero() || d.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: service and slot are required", ErrIncompleteDraft)
	}

	req := &create_booking.Request{
		ServiceID: d.ServiceID,
		Date:      d.Date,
		StartTime: d.StartTime,
		Notes:     d.Notes,
	}

	switch s.Path {
	case PathAccount:
		if d.UserID == nil {
			return nil, fmt.Errorf("%w: user is required", ErrIncompleteDraft)
		}
		req.Customer = domain.Customer{UserID: d.UserID}
	case PathGuest:
		if d.Guest == nil || d.Payment == nil {
			return nil, fmt.Errorf("%w: guest contact and payment are required", ErrIncompleteDraft)
		}
		guest := *d.Guest
		req.Customer = domain.Customer{Guest: &guest}
		req.Payment = d.Payment
	default:
		return nil, fmt.Errorf("%w: path is not chosen", ErrIncompleteDraft)
	}

	return req, nil
}
