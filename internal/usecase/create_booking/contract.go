package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
}

// BlockedRepository интерфейс репозитория заблокированных интервалов
type BlockedRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.BlockedInterval, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CalendarProvider интерфейс источника правил календаря
type CalendarProvider interface {
	GetRules(ctx context.Context) (*domain.CalendarRules, error)
	Location() *time.Location
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncBookingCreated(status string)
	IncSlotConflict()
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
