package maintenance

import (
	"context"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// ServiceCatalog интерфейс каталога услуг (кэш поверх репозитория)
type ServiceCatalog interface {
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	SetActive(ctx context.Context, ids []int64, active bool) (int64, error)
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	GetOpenDueBefore(ctx context.Context, date time.Time) ([]*domain.Invoice, error)
	UpdateStatus(ctx context.Context, inv *domain.Invoice, from domain.InvoiceStatus) error
	AddStatusChange(ctx context.Context, change *domain.InvoiceStatusChange) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncInvoiceTransition(from, to string)
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
