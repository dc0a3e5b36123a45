package blocked

import (
	"context"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// BlockedRepository интерфейс репозитория заблокированных интервалов
type BlockedRepository interface {
	Create(ctx context.Context, interval *domain.BlockedInterval) (*domain.BlockedInterval, error)
	GetByPeriod(ctx context.Context, from, to time.Time) ([]*domain.BlockedInterval, error)
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
