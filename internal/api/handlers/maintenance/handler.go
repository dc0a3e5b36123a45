package maintenance

import (
	"errors"
	"net/http"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgUnknownServices    = "часть услуг не найдена, изменения не применены"
)

// SetServicesActiveRequest HTTP request model
type SetServicesActiveRequest struct {
	ServiceIDs []int64 `json:"serviceIds" validate:"required,min=1,max=1000,unique,dive,gt=0"`
	Active     *bool   `json:"active" validate:"required"`
}

type Handler struct {
	service MaintenanceService
	logger  Logger
}

func NewHandler(service MaintenanceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleSetServicesActive POST /api/v1/staff/maintenance/services/activation
func (h *Handler) HandleSetServicesActive(w http.ResponseWriter, r *http.Request) {
	var req SetServicesActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/maintenance/services/activation - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("POST /staff/maintenance/services/activation - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	result, err := h.service.SetServicesActive(r.Context(), &models.SetServicesActiveRequest{
		ServiceIDs: req.ServiceIDs,
		Active:     *req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrUnknownServices):
			h.logger.Warn("POST /staff/maintenance/services/activation - %v", err)
			handlers.RespondBadRequest(w, msgUnknownServices)

		case errors.Is(err, maintenance.ErrInvalidInput):
			h.logger.Warn("POST /staff/maintenance/services/activation - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("POST /staff/maintenance/services/activation - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/maintenance/services/activation - Changed %d of %d services",
		result.Changed, result.Requested)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleSweepOverdue POST /api/v1/staff/maintenance/invoices/overdue
func (h *Handler) HandleSweepOverdue(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SweepOverdueInvoices(r.Context())
	if err != nil {
		h.logger.Error("POST /staff/maintenance/invoices/overdue - Failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /staff/maintenance/invoices/overdue - Marked %d invoices overdue", result.Updated)
	handlers.RespondJSON(w, http.StatusOK, result)
}
