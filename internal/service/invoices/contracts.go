package invoices

import (
	"context"
	"io"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	NextNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoicesFilter) ([]*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, inv *domain.Invoice, from domain.InvoiceStatus) error
	AddStatusChange(ctx context.Context, change *domain.InvoiceStatusChange) error
	GetStatusHistory(ctx context.Context, invoiceID int64) ([]*domain.InvoiceStatusChange, error)
}

// Exporter интерфейс выгрузки счетов в файл
type Exporter interface {
	ContentType() string
	Write(w io.Writer, invoices []*domain.Invoice) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncInvoiceCreated(source string)
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
