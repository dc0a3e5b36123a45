package blocked_intervals

import (
	"errors"
	"net/http"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked/models"
)

const (
	msgInvalidID          = "некорректный ID блокировки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgInvalidData        = "некорректный интервал"
	msgMissingPeriod      = "параметры from и to обязательны"
	msgInvalidParams      = "некорректные параметры запроса"
	msgNotFound           = "блокировка не найдена"
)

type Handler struct {
	service BlockedService
	logger  Logger
}

func NewHandler(service BlockedService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/staff/blocked-intervals
// Пересекающиеся бронирования не отменяются, их ID возвращаются в ответе
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockedRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/blocked-intervals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("POST /staff/blocked-intervals - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgValidationFailed, fields)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, blocked.ErrInvalidInput) {
			h.logger.Warn("POST /staff/blocked-intervals - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}
		h.logger.Error("POST /staff/blocked-intervals - Failed to create: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /staff/blocked-intervals - Blocked interval created: id=%d, overlapping=%d",
		result.ID, len(result.OverlappingBookingIDs))
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleList GET /api/v1/staff/blocked-intervals?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	if from == nil || to == nil {
		h.logger.Warn("GET /staff/blocked-intervals - Missing period")
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	result, err := h.service.List(r.Context(), &models.ListBlockedRequest{From: *from, To: *to})
	if err != nil {
		if errors.Is(err, blocked.ErrInvalidInput) {
			h.logger.Warn("GET /staff/blocked-intervals - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /staff/blocked-intervals - Failed to list: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff/blocked-intervals - Retrieved %d intervals", len(result.Intervals))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/staff/blocked-intervals/{intervalId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "intervalId")
	if err != nil {
		h.logger.Warn("DELETE /staff/blocked-intervals/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, blocked.ErrIntervalNotFound) {
			h.logger.Warn("DELETE /staff/blocked-intervals/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /staff/blocked-intervals/{id} - Failed to delete: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /staff/blocked-intervals/{id} - Deleted: id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
