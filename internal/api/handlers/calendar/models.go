package calendar

import (
	"github.com/m04kA/SkinStudio-BookingService/internal/service/calendar/models"
)

// DayHoursRequest часы работы на день недели
type DayHoursRequest struct {
	Weekday string `json:"weekday" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Open    string `json:"open" validate:"required"`
	Close   string `json:"close" validate:"required"`
}

// UpdateCalendarRequest HTTP request model
// Отсутствующие поля не меняются; hours заменяет расписание целиком, пустой список закрывает все дни
type UpdateCalendarRequest struct {
	Hours                     *[]DayHoursRequest `json:"hours,omitempty" validate:"omitempty,dive"`
	SlotGranularityMinutes    *int               `json:"slotGranularityMinutes,omitempty"`
	LeadDays                  *int               `json:"leadDays,omitempty"`
	CancellationWindowMinutes *int               `json:"cancellationWindowMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateCalendarRequest) ToServiceRequest() *models.UpdateCalendarRequest {
	req := &models.UpdateCalendarRequest{
		SlotGranularityMinutes:    r.SlotGranularityMinutes,
		LeadDays:                  r.LeadDays,
		CancellationWindowMinutes: r.CancellationWindowMinutes,
	}

	if r.Hours != nil {
		req.Hours = make([]models.DayHours, 0, len(*r.Hours))
		for _, h := range *r.Hours {
			req.Hours = append(req.Hours, models.DayHours{Weekday: h.Weekday, Open: h.Open, Close: h.Close})
		}
	}

	return req
}
