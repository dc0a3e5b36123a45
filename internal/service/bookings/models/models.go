package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос календаря бронирований (для персонала)
type ListBookingsRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *string
	UserID    *int64
	Limit     uint64
	Offset    uint64
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		UserID:    r.UserID,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, fmt.Errorf("end date %s is before start date %s",
			r.EndDate.Format(domain.DateFormat), r.StartDate.Format(domain.DateFormat))
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// GuestResponse контакты гостя
type GuestResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64          `json:"id"`
	ServiceID       int64          `json:"serviceId"`
	BookingDate     string         `json:"bookingDate"` // "2025-10-15"
	StartTime       string         `json:"startTime"`   // "10:00"
	EndTime         string         `json:"endTime"`
	DurationMinutes int            `json:"durationMinutes"`
	Status          string         `json:"status"`
	UserID          *int64         `json:"userId,omitempty"`
	Guest           *GuestResponse `json:"guest,omitempty"`

	// Снимок услуги на момент записи
	ServiceName  string          `json:"serviceName"`
	ServicePrice decimal.Decimal `json:"servicePrice"`
	Notes        *string         `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *string    `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		UserID:             b.Customer.UserID,
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.Customer.Guest != nil {
		resp.Guest = &GuestResponse{
			Name:  b.Customer.Guest.Name,
			Email: b.Customer.Guest.Email,
			Phone: b.Customer.Guest.Phone,
		}
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", status)
	}
	return s, nil
}
