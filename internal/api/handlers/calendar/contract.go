package calendar

import (
	"context"

	"github.com/m04kA/SkinStudio-BookingService/internal/service/calendar/models"
)

type CalendarService interface {
	Get(ctx context.Context) (*models.CalendarResponse, error)
	Update(ctx context.Context, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
