package calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные правила календаря"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGet GET /api/v1/calendar
// Публичный endpoint. Пока правила не сохранены, возвращаются значения из конфига
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("GET /calendar - Failed to get calendar: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendar - Calendar retrieved successfully: source=%s", result.Source)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdate PUT /api/v1/staff/calendar
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/calendar - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		h.logger.Warn("PUT /staff/calendar - Validation failed: %v", fields)
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidInput) {
			h.logger.Warn("PUT /staff/calendar - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())
			return
		}
		h.logger.Error("PUT /staff/calendar - Failed to update calendar: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /staff/calendar - Calendar updated successfully")
	handlers.RespondJSON(w, http.StatusOK, result)
}
