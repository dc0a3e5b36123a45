package update_booking_status

import (
	"context"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	CancelByStaff(ctx context.Context, id int64, actor domain.Actor, reason *string) (*models.BookingResponse, error)
	Confirm(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error)
	Complete(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
