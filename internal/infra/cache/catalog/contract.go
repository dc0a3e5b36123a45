package catalog

import (
	"context"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// Repository источник данных каталога
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	SetActive(ctx context.Context, ids []int64, active bool) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
