package models

import (
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// CreateBlockedRequest запрос на блокировку интервала внутри одного дня
type CreateBlockedRequest struct {
	Date      time.Time
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM", не позже 24:00
	Reason    *string
}

// ListBlockedRequest период выборки, обе даты включительно
type ListBlockedRequest struct {
	From time.Time
	To   time.Time
}

// BlockedResponse ответ с данными блокировки
type BlockedResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// Бронирования, которые пересекаются с блокировкой. Они не отменяются автоматически
	OverlappingBookingIDs []int64 `json:"overlappingBookingIds,omitempty"`
}

// BlockedListResponse ответ со списком блокировок
type BlockedListResponse struct {
	Intervals []BlockedResponse `json:"intervals"`
}

// FromDomainBlocked конвертирует domain модель в DTO
func FromDomainBlocked(b *domain.BlockedInterval) *BlockedResponse {
	return &BlockedResponse{
		ID:        b.ID,
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlockedList конвертирует список domain моделей в DTO
func FromDomainBlockedList(intervals []*domain.BlockedInterval) *BlockedListResponse {
	resp := &BlockedListResponse{Intervals: make([]BlockedResponse, 0, len(intervals))}
	for _, b := range intervals {
		resp.Intervals = append(resp.Intervals, *FromDomainBlocked(b))
	}
	return resp
}
