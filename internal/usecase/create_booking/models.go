package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// Payment платёжные данные гостя. Списание не выполняется,
// наличие данных только подтверждает бронирование сразу
type Payment struct {
	Method    string
	Reference string
}

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID int64            // ID услуги
	Date      time.Time        // Дата бронирования (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Customer  domain.Customer  // Пользователь или гость
	Notes     *string          // Дополнительные заметки (опционально)
	Payment   *Payment         // Только для гостей (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          domain.BookingStatus
	Customer        domain.Customer

	// Снимок услуги
	ServiceName  string
	ServicePrice decimal.Decimal

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomain(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		Customer:        b.Customer,
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
