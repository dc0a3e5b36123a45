package blocked_intervals

import (
	"context"

	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked/models"
)

type BlockedService interface {
	Create(ctx context.Context, req *models.CreateBlockedRequest) (*models.BlockedResponse, error)
	List(ctx context.Context, req *models.ListBlockedRequest) (*models.BlockedListResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
