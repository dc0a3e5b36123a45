package invoices

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/invoices"
)

const (
	msgInvalidInvoiceID   = "некорректный ID счета"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgInvalidParams      = "некорректные параметры запроса"
	msgInvalidData        = "некорректные данные счета"
	msgNotFound           = "счет не найден"
	msgNotEditable        = "изменять можно только счет в статусе pending"
	msgInvalidTransition  = "переход статуса счета не разрешен"
)

type Handler struct {
	service InvoiceService
	logger  Logger
}

func NewHandler(service InvoiceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/staff/invoices
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if !h.decode(w, r, "POST /staff/invoices", &req) {
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /staff/invoices - Invalid due date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	result, err := h.service.CreateManual(r.Context(), serviceReq)
	if err != nil {
		h.respondServiceError(w, "POST /staff/invoices", 0, err)
		return
	}

	h.logger.Info("POST /staff/invoices - Invoice created successfully: invoice_id=%d, number=%s", result.ID, result.Number)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleGet GET /api/v1/staff/invoices/{invoiceId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r, "GET /staff/invoices/{id}")
	if !ok {
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "GET /staff/invoices/{id}", id, err)
		return
	}

	h.logger.Info("GET /staff/invoices/{id} - Invoice retrieved successfully: invoice_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/staff/invoices
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToListRequest(r)
	if err != nil {
		h.logger.Warn("GET /staff/invoices - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		h.respondServiceError(w, "GET /staff/invoices", 0, err)
		return
	}

	h.logger.Info("GET /staff/invoices - Invoices retrieved successfully: count=%d", len(result.Invoices))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleExport GET /api/v1/staff/invoices/export
// Принимает те же фильтры, что и список, без пагинации
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToListRequest(r)
	if err != nil {
		h.logger.Warn("GET /staff/invoices/export - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Файл собирается целиком, чтобы ошибка не оборвала уже начатый ответ
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), serviceReq, &buf); err != nil {
		h.respondServiceError(w, "GET /staff/invoices/export", 0, err)
		return
	}

	w.Header().Set("Content-Type", h.service.ExportContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("GET /staff/invoices/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /staff/invoices/export - Invoices exported successfully")
}

// HandleUpdate PUT /api/v1/staff/invoices/{invoiceId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r, "PUT /staff/invoices/{id}")
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if !h.decode(w, r, "PUT /staff/invoices/{id}", &req) {
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /staff/invoices/{id} - Invalid due date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	result, err := h.service.Update(r.Context(), id, serviceReq)
	if err != nil {
		h.respondServiceError(w, "PUT /staff/invoices/{id}", id, err)
		return
	}

	h.logger.Info("PUT /staff/invoices/{id} - Invoice updated successfully: invoice_id=%d, total=%s", id, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateStatus PATCH /api/v1/staff/invoices/{invoiceId}/status
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r, "PATCH /staff/invoices/{id}/status")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !h.decode(w, r, "PATCH /staff/invoices/{id}/status", &req) {
		return
	}

	actor, _ := middleware.GetActor(r.Context())

	result, err := h.service.UpdateStatus(r.Context(), id, req.ToServiceRequest(actor.UserID))
	if err != nil {
		h.respondServiceError(w, "PATCH /staff/invoices/{id}/status", id, err)
		return
	}

	h.logger.Info("PATCH /staff/invoices/{id}/status - Invoice status updated: invoice_id=%d, status=%s", id, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) invoiceID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathInt64(r, "invoiceId")
	if err != nil {
		h.logger.Warn("%s - Invalid invoice ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, dst interface{}) bool {
	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return false
	}
	if fields := handlers.ValidateStruct(dst); fields != nil {
		h.logger.Warn("%s - Validation failed: %v", route, fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return false
	}
	return true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, id int64, err error) {
	switch {
	case errors.Is(err, invoices.ErrInvoiceNotFound):
		h.logger.Warn("%s - Invoice not found: invoice_id=%d", route, id)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, invoices.ErrInvoiceNotEditable):
		h.logger.Warn("%s - Invoice not editable: invoice_id=%d", route, id)
		handlers.RespondConflict(w, msgNotEditable)

	case errors.Is(err, invoices.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: invoice_id=%d, error=%v", route, id, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, fmt.Sprintf("%s: %v", msgInvalidData, err))

	default:
		h.logger.Error("%s - Failed: invoice_id=%d, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
