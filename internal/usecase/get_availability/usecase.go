package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/availability"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	catalog      ServiceCatalog
	calendar     CalendarProvider
	blockedRepo  BlockedRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog ServiceCatalog,
	calendar CalendarProvider,
	blockedRepo BlockedRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:      catalog,
		calendar:     calendar,
		blockedRepo:  blockedRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и "сегодня" в часовом поясе студии
	loc := uc.calendar.Location()
	date := domain.DateIn(req.Date, loc)
	now := uc.timeProvider.Now().In(loc)

	// 3. Правила календаря
	rules, err := uc.calendar.GetRules(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get calendar rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar rules: %v", ErrInternal, err)
	}

	// 4. Проверка минимального срока записи
	if err := validateLeadTime(date, now, rules); err != nil {
		uc.logger.Warn("GetAvailability: %v", err)
		return nil, err
	}

	// 5. Услуга
	service, err := uc.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailability: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	resp := &Response{
		Date:            date,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// 6. Выходной день: пустой список без обращения к хранилищу
	hours, open := rules.Hours.For(date)
	if !open {
		uc.logger.Info("GetAvailability: studio is closed on %s", date.Format(domain.DateFormat))
		return resp, nil
	}

	// 7. Блокировки и бронирования на дату
	blocked, err := uc.blockedRepo.GetByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get blocked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked intervals: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Расчёт слотов
	starts, err := availability.ComputeSlots(availability.Input{
		Hours:              &hours,
		DurationMinutes:    service.DurationMinutes,
		GranularityMinutes: rules.SlotGranularityMinutes,
		Blocked:            blocked,
		Bookings:           bookings,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	for _, start := range starts {
		end, err := start.AddMinutes(service.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: slot end: %v", ErrInternal, err)
		}
		resp.Slots = append(resp.Slots, Slot{StartTime: start, EndTime: end})
	}

	uc.logger.Info("GetAvailability: found %d slots for service=%d on %s",
		len(resp.Slots), req.ServiceID, date.Format(domain.DateFormat))
	return resp, nil
}
