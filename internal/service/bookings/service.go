package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo  BookingRepository
	calendar     CalendarProvider
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	calendar CalendarProvider,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		calendar:     calendar,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, персонал - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for role=%s", id, actor.Role)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.IsStaff() && !booking.OwnedBy(actor) {
		s.logger.Warn("GetByID: access denied to booking id=%d", id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
func (s *Service) GetUserBookings(ctx context.Context, userID int64, status *string) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", userID)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	return s.list(ctx, "GetUserBookings", &models.ListBookingsRequest{UserID: &userID, Status: status})
}

// List получает календарь бронирований с фильтрами (для персонала)
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings")
	return s.list(ctx, "List", req)
}

// Cancel отменяет бронирование по запросу клиента
// Разрешено из pending/confirmed, пока до начала больше окна отмены
func (s *Service) Cancel(ctx context.Context, id int64, actor domain.Actor, reason *string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by customer", id)

	if err := validateReason(reason); err != nil {
		return nil, err
	}

	return s.transition(ctx, "Cancel", id, domain.StatusCancelled, actor.Role,
		func(txCtx context.Context, booking *domain.Booking) error {
			if !booking.OwnedBy(actor) {
				return ErrAccessDenied
			}
			if !booking.CanBeCancelled() {
				return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
			}

			rules, err := s.calendar.GetRules(txCtx)
			if err != nil {
				return fmt.Errorf("%w: Cancel - calendar rules: %v", ErrInternal, err)
			}

			loc := s.calendar.Location()
			now := s.timeProvider.Now().In(loc)
			if booking.StartsAt(loc).Sub(now) <= rules.CancellationWindow {
				return fmt.Errorf("%w: cancellation is allowed until %s before start",
					ErrCancellationWindowExpired, rules.CancellationWindow)
			}

			return s.bookingRepo.Cancel(txCtx, id, booking.Status, domain.RoleCustomer, normalizeReason(reason))
		})
}

// CancelByStaff отменяет бронирование без проверки окна отмены
func (s *Service) CancelByStaff(ctx context.Context, id int64, actor domain.Actor, reason *string) (*models.BookingResponse, error) {
	s.logger.Info("CancelByStaff: cancelling booking id=%d", id)

	if !actor.IsStaff() {
		return nil, ErrAccessDenied
	}
	if err := validateReason(reason); err != nil {
		return nil, err
	}

	return s.transition(ctx, "CancelByStaff", id, domain.StatusCancelled, actor.Role,
		func(txCtx context.Context, booking *domain.Booking) error {
			if !booking.CanBeCancelled() {
				return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
			}
			return s.bookingRepo.Cancel(txCtx, id, booking.Status, domain.RoleStaff, normalizeReason(reason))
		})
}

// Confirm подтверждает бронирование: pending -> confirmed
func (s *Service) Confirm(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d", id)
	return s.staffTransition(ctx, "Confirm", id, actor, domain.StatusConfirmed)
}

// Complete завершает бронирование: confirmed -> completed
// Счёт не создаётся, это отдельный шаг
func (s *Service) Complete(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d", id)
	return s.staffTransition(ctx, "Complete", id, actor, domain.StatusCompleted)
}

// Вспомогательные методы

func (s *Service) staffTransition(
	ctx context.Context,
	op string,
	id int64,
	actor domain.Actor,
	to domain.BookingStatus,
) (*models.BookingResponse, error) {
	if !actor.IsStaff() {
		return nil, ErrAccessDenied
	}

	return s.transition(ctx, op, id, to, actor.Role,
		func(txCtx context.Context, booking *domain.Booking) error {
			if !booking.Status.CanTransitionTo(to) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
			}
			return s.bookingRepo.UpdateStatus(txCtx, id, booking.Status, to)
		})
}

// transition загружает бронирование с блокировкой строки, применяет apply
// и перечитывает результат в той же транзакции
func (s *Service) transition(
	ctx context.Context,
	op string,
	id int64,
	to domain.BookingStatus,
	role domain.Role,
	apply func(txCtx context.Context, booking *domain.Booking) error,
) (*models.BookingResponse, error) {
	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, op, id)
		if err != nil {
			return err
		}

		if err := apply(txCtx, booking); err != nil {
			return err
		}

		result, err = s.getBooking(txCtx, op, id)
		return err
	})

	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("%s: booking id=%d status changed concurrently", op, id)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		case errors.Is(err, ErrBookingNotFound),
			errors.Is(err, ErrAccessDenied),
			errors.Is(err, ErrInvalidTransition),
			errors.Is(err, ErrCancellationWindowExpired),
			errors.Is(err, ErrInternal):
			s.logger.Warn("%s: booking id=%d: %v", op, id, err)
			return nil, err
		default:
			s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	s.metrics.IncBookingTransition(string(to), string(role))
	s.logger.Info("%s: booking id=%d is now %s", op, id, result.Status)
	return models.FromDomainBooking(result), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) list(ctx context.Context, op string, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("%s: invalid filter: %v", op, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully fetched %d bookings", op, len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

func validateReason(reason *string) error {
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
