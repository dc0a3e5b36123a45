package create_invoice_from_booking

import (
	"context"

	createInvoice "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_invoice_from_booking"
)

type CreateInvoiceUseCase interface {
	Execute(ctx context.Context, req *createInvoice.Request) (*createInvoice.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
