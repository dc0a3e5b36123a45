package maintenance

import (
	"context"

	"github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance/models"
)

type MaintenanceService interface {
	SetServicesActive(ctx context.Context, req *models.SetServicesActiveRequest) (*models.SetServicesActiveResponse, error)
	SweepOverdueInvoices(ctx context.Context) (*models.SweepResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
