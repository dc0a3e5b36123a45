package calendar

import (
	"context"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// CalendarRepository интерфейс репозитория правил календаря
type CalendarRepository interface {
	Get(ctx context.Context) (*domain.CalendarRules, error)
	Save(ctx context.Context, rules *domain.CalendarRules) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
