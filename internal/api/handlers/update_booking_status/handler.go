package update_booking_status

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/bookings"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ только для персонала"
	msgInvalidTransition  = "переход статуса не разрешен"
	msgInvalidData        = "некорректные данные"
)

// CancelRequest тело запроса отмены персоналом
type CancelRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCancel PATCH /api/v1/staff/bookings/{bookingId}/cancel
// Окно отмены для персонала не действует
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /staff/bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.ValidateStruct(req); fields != nil {
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	h.handle(w, r, "cancel", func(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
		return h.service.CancelByStaff(ctx, id, actor, req.Reason)
	})
}

// HandleConfirm PATCH /api/v1/staff/bookings/{bookingId}/confirm
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "confirm", h.service.Confirm)
}

// HandleComplete PATCH /api/v1/staff/bookings/{bookingId}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "complete", h.service.Complete)
}

func (h *Handler) handle(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error),
) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /staff/bookings/{id}/%s - Invalid booking ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, _ := middleware.GetActor(r.Context())

	result, err := apply(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /staff/bookings/{id}/%s - Booking not found: booking_id=%d", action, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /staff/bookings/{id}/%s - Access denied: booking_id=%d", action, bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /staff/bookings/{id}/%s - Invalid transition: booking_id=%d, error=%v",
				action, bookingID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /staff/bookings/{id}/%s - Failed: booking_id=%d, error=%v", action, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /staff/bookings/{id}/%s - Booking updated successfully: booking_id=%d, status=%s",
		action, bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
