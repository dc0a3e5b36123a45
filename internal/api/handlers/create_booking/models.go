package create_booking

import (
	"errors"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	bookingModels "github.com/m04kA/SkinStudio-BookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

var (
	errGuestRequired   = errors.New("guest contact is required for anonymous booking")
	errGuestWithUser   = errors.New("guest contact is not accepted for a registered user")
	errPaymentWithUser = errors.New("payment is accepted only for guest bookings")
)

// GuestRequest контактные данные гостя
type GuestRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// PaymentRequest платёжные данные гостя
type PaymentRequest struct {
	Method    string `json:"method" validate:"required,max=64"`
	Reference string `json:"reference,omitempty" validate:"omitempty,max=255"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID   int64           `json:"serviceId" validate:"required,gt=0"`
	BookingDate string          `json:"bookingDate" validate:"required,datetime=2006-01-02"` // "2030-06-03"
	StartTime   string          `json:"startTime" validate:"required"`                       // "10:00"
	Notes       *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
	Guest       *GuestRequest   `json:"guest,omitempty"`
	Payment     *PaymentRequest `json:"payment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Зарегистрированный пользователь берется из заголовков, гость из тела запроса
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		ServiceID: r.ServiceID,
		Date:      bookingDate,
		StartTime: startTime,
		Notes:     r.Notes,
	}

	switch {
	case actor.UserID != nil:
		if r.Guest != nil {
			return nil, errGuestWithUser
		}
		if r.Payment != nil {
			return nil, errPaymentWithUser
		}
		req.Customer = domain.Customer{UserID: actor.UserID}
	case r.Guest == nil:
		return nil, errGuestRequired
	default:
		req.Customer = domain.Customer{Guest: &domain.GuestContact{
			Name:  r.Guest.Name,
			Email: r.Guest.Email,
			Phone: r.Guest.Phone,
		}}
		if r.Payment != nil {
			req.Payment = &createBooking.Payment{Method: r.Payment.Method, Reference: r.Payment.Reference}
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *bookingModels.BookingResponse {
	return bookingModels.FromDomainBooking(&domain.Booking{
		ID:              resp.ID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate,
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		Status:          resp.Status,
		Customer:        resp.Customer,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		DurationMinutes: resp.DurationMinutes,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	})
}
