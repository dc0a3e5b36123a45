package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/availability"
	"github.com/m04kA/SkinStudio-BookingService/pkg/pgerr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	blockedRepo  BlockedRepository
	catalog      ServiceCatalog
	calendar     CalendarProvider
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blockedRepo BlockedRepository,
	catalog ServiceCatalog,
	calendar CalendarProvider,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		blockedRepo:  blockedRepo,
		catalog:      catalog,
		calendar:     calendar,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка слота и вставка выполняются в сериализуемой транзакции,
// второй пересекающийся писатель дополнительно отклоняется ограничением в БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%d, date=%s, time=%s, guest=%t",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Customer.IsGuest())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и текущее время в часовом поясе студии
	loc := uc.calendar.Location()
	date := domain.DateIn(req.Date, loc)
	now := uc.timeProvider.Now().In(loc)

	// 3. Услуга должна существовать и быть активной
	service, err := uc.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: service does not fit into the day: %v", err)
		return nil, ErrSlotNotAvailable
	}

	var result *domain.Booking

	// 4. Повторная проверка слота и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Правила календаря
		rules, err := uc.calendar.GetRules(txCtx)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get calendar rules: %v", err)
			return fmt.Errorf("%w: failed to get calendar rules: %v", ErrInternal, err)
		}

		// 4.2. Минимальный срок записи
		if err := validateLeadTime(date, req.StartTime, now, rules); err != nil {
			uc.logger.Warn("CreateBooking: %v", err)
			return err
		}

		var hours *domain.DayHours
		if h, open := rules.Hours.For(date); open {
			hours = &h
		}

		// 4.3. Блокировки и бронирования на дату (строки бронирований блокируются FOR UPDATE)
		blocked, err := uc.blockedRepo.GetByDate(txCtx, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocked intervals: %v", err)
			return fmt.Errorf("%w: failed to get blocked intervals: %v", ErrInternal, err)
		}

		bookings, err := uc.bookingRepo.GetActiveByDate(txCtx, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 4.4. Тот же калькулятор, что и для выдачи слотов
		ok, err := availability.IsAvailable(availability.Input{
			Hours:              hours,
			DurationMinutes:    service.DurationMinutes,
			GranularityMinutes: rules.SlotGranularityMinutes,
			Blocked:            blocked,
			Bookings:           bookings,
		}, req.StartTime)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to compute slots: %v", err)
			return fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("CreateBooking: slot %s %s is not available",
				date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotNotAvailable
		}

		// 4.5. Бронирование со снимком услуги
		booking := &domain.Booking{
			ServiceID:       service.ID,
			BookingDate:     date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			Status:          initialStatus(req),
			Customer:        req.Customer,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.translateError(err)
	}

	uc.metrics.IncBookingCreated(string(result.Status))
	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	return fromDomain(result), nil
}

// translateError приводит ошибки транзакции к ошибкам usecase
// Нарушение exclusion constraint и конфликт сериализации означают, что слот занял другой запрос
func (uc *UseCase) translateError(err error) error {
	switch {
	case errors.Is(err, ErrSlotNotAvailable),
		errors.Is(err, bookingRepo.ErrSlotNotAvailable),
		pgerr.IsSerializationFailure(err):
		uc.metrics.IncSlotConflict()
		if !errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: concurrent booking rejected: %v", err)
		}
		return ErrSlotNotAvailable
	case errors.Is(err, bookingRepo.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDateNotBookable),
		errors.Is(err, ErrInternal):
		return err
	default:
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
}
