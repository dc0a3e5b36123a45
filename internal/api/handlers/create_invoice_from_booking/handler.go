package create_invoice_from_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	invoiceModels "github.com/m04kA/SkinStudio-BookingService/internal/service/invoices/models"
	createInvoice "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_invoice_from_booking"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgValidationFailed    = "ошибка валидации запроса"
	msgBookingNotFound     = "бронирование не найдено"
	msgInvalidSource       = "по этому бронированию нельзя выставить счет"
	msgInvalidInvoiceItems = "некорректные позиции счета"
)

type Handler struct {
	useCase CreateInvoiceUseCase
	logger  Logger
}

func NewHandler(useCase CreateInvoiceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/staff/bookings/{bookingId}/invoices
// Счет выставляется только по завершённому бронированию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /staff/bookings/{id}/invoices - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CreateInvoiceRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/bookings/{id}/invoices - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("POST /staff/bookings/{id}/invoices - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, createInvoice.ErrBookingNotFound):
			h.logger.Warn("POST /staff/bookings/{id}/invoices - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, createInvoice.ErrInvalidSourceBooking):
			h.logger.Warn("POST /staff/bookings/{id}/invoices - Invalid source booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondUnprocessable(w, msgInvalidSource)

		case errors.Is(err, createInvoice.ErrInvalidInput):
			h.logger.Warn("POST /staff/bookings/{id}/invoices - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInvoiceItems)

		default:
			h.logger.Error("POST /staff/bookings/{id}/invoices - Failed to create invoice: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/bookings/{id}/invoices - Invoice created successfully: booking_id=%d, invoice_id=%d",
		bookingID, result.Invoice.ID)
	handlers.RespondJSON(w, http.StatusCreated, invoiceModels.FromDomainInvoice(result.Invoice))
}
