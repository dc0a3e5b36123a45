package blocked

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	blockedRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/blocked"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/blocked/models"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// maxListPeriodDays ограничение периода выборки
const maxListPeriodDays = 366

// Service сервис заблокированных интервалов календаря
type Service struct {
	blockedRepo BlockedRepository
	bookingRepo BookingRepository
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	blockedRepo BlockedRepository,
	bookingRepo BookingRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		blockedRepo: blockedRepo,
		bookingRepo: bookingRepo,
		location:    location,
		logger:      logger,
	}
}

// Create блокирует интервал. Существующие бронирования не отменяются,
// их ID возвращаются в ответе, чтобы персонал разобрался с ними вручную
func (s *Service) Create(ctx context.Context, req *models.CreateBlockedRequest) (*models.BlockedResponse, error) {
	s.logger.Info("Create: blocking %s %s-%s", req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	interval, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.blockedRepo.Create(ctx, interval)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBlocked(created)

	bookings, err := s.bookingRepo.GetActiveByDate(ctx, created.Date)
	if err != nil {
		s.logger.Error("Create: failed to check overlapping bookings: %v", err)
		return resp, nil
	}
	for _, b := range bookings {
		if b.Interval().Overlaps(created.Interval()) {
			resp.OverlappingBookingIDs = append(resp.OverlappingBookingIDs, b.ID)
		}
	}
	if len(resp.OverlappingBookingIDs) > 0 {
		s.logger.Warn("Create: blocked interval id=%d overlaps bookings %v", created.ID, resp.OverlappingBookingIDs)
	}

	s.logger.Info("Create: successfully created blocked interval id=%d", created.ID)
	return resp, nil
}

// List получает блокировки за период
func (s *Service) List(ctx context.Context, req *models.ListBlockedRequest) (*models.BlockedListResponse, error) {
	from := domain.DateIn(req.From, s.location)
	to := domain.DateIn(req.To, s.location)
	s.logger.Info("List: fetching blocked intervals %s..%s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before start", ErrInvalidInput)
	}
	if to.Sub(from) > maxListPeriodDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxListPeriodDays)
	}

	intervals, err := s.blockedRepo.GetByPeriod(ctx, from, to)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedList(intervals), nil
}

// Delete снимает блокировку
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting blocked interval id=%d", id)

	if err := s.blockedRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedRepo.ErrIntervalNotFound) {
			s.logger.Warn("Delete: blocked interval id=%d not found", id)
			return ErrIntervalNotFound
		}
		s.logger.Error("Delete: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted blocked interval id=%d", id)
	return nil
}

func (s *Service) toDomain(req *models.CreateBlockedRequest) (*domain.BlockedInterval, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	interval := &domain.BlockedInterval{
		Date:      domain.DateIn(req.Date, s.location),
		StartTime: start,
		EndTime:   end,
	}
	if !interval.Interval().IsValid() {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Reason != nil {
		reason := strings.TrimSpace(*req.Reason)
		if len(reason) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		if reason != "" {
			interval.Reason = &reason
		}
	}

	return interval, nil
}
