package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// ServiceCatalog интерфейс каталога услуг (через кеш)
type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CalendarProvider интерфейс источника правил календаря
type CalendarProvider interface {
	GetRules(ctx context.Context) (*domain.CalendarRules, error)
	Location() *time.Location
}

// BlockedRepository интерфейс репозитория заблокированных интервалов
type BlockedRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.BlockedInterval, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
