package invoices

import (
	"context"
	"io"

	"github.com/m04kA/SkinStudio-BookingService/internal/service/invoices/models"
)

type InvoiceService interface {
	CreateManual(ctx context.Context, req *models.CreateInvoiceRequest) (*models.InvoiceResponse, error)
	GetByID(ctx context.Context, id int64) (*models.InvoiceResponse, error)
	List(ctx context.Context, req *models.ListInvoicesRequest) (*models.InvoiceListResponse, error)
	Export(ctx context.Context, req *models.ListInvoicesRequest, w io.Writer) error
	ExportContentType() string
	Update(ctx context.Context, id int64, req *models.UpdateInvoiceRequest) (*models.InvoiceResponse, error)
	UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
