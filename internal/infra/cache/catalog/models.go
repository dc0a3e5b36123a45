package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// cachedService представление услуги в Redis
type cachedService struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
	IsActive        bool            `json:"isActive"`
}

func toCached(s *domain.Service) cachedService {
	return cachedService{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}
}

func (c cachedService) toDomain() *domain.Service {
	return &domain.Service{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		DurationMinutes: c.DurationMinutes,
		Price:           c.Price,
		IsActive:        c.IsActive,
	}
}
