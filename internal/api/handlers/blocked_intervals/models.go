package blocked_intervals

import (
	"github.com/m04kA/SkinStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked/models"
)

// CreateBlockedRequest HTTP request model
type CreateBlockedRequest struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"startTime" validate:"required"`
	EndTime   string  `json:"endTime" validate:"required"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateBlockedRequest) ToServiceRequest() (*models.CreateBlockedRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.CreateBlockedRequest{
		Date:      date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}, nil
}
