package create_invoice_from_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/booking"
)

const sourceBooking = "booking"

// UseCase use case для выставления счета по завершённому бронированию
type UseCase struct {
	bookingRepo  BookingRepository
	invoiceRepo  InvoiceRepository
	txManager    TransactionManager
	policy       domain.BillingPolicy
	location     *time.Location
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	invoiceRepo InvoiceRepository,
	txManager TransactionManager,
	policy domain.BillingPolicy,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		invoiceRepo:  invoiceRepo,
		txManager:    txManager,
		policy:       policy,
		location:     location,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case
// Проверка бронирования, нумерация и вставка выполняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateInvoiceFromBooking: booking=%d, extra items=%d", req.BookingID, len(req.ExtraItems))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateInvoiceFromBooking: validation failed: %v", err)
		return nil, err
	}

	today := domain.DateIn(uc.timeProvider.Now().In(uc.location), uc.location)
	var result *domain.Invoice

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Бронирование (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if err := validateSourceBooking(booking); err != nil {
			return err
		}

		// 3. Позиции: услуга из снимка, затем дополнительные
		items := make([]domain.LineItem, 0, len(req.ExtraItems)+1)
		items = append(items, serviceLineItem(booking))
		items = append(items, req.ExtraItems...)

		inv := &domain.Invoice{
			BookingID: &booking.ID,
			Customer:  domain.InvoiceCustomerFromBooking(booking.Customer),
			Items:     items,
			Status:    domain.InvoicePending,
			IssueDate: today,
			DueDate:   uc.policy.DueDate(today),
			Notes:     req.Notes,
		}
		inv.Recalculate(uc.policy.TaxRate)

		// 4. Номер и сохранение
		number, err := uc.invoiceRepo.NextNumber(txCtx)
		if err != nil {
			return fmt.Errorf("%w: failed to get invoice number: %v", ErrInternal, err)
		}
		inv.Number = number

		created, err := uc.invoiceRepo.Create(txCtx, inv)
		if err != nil {
			return fmt.Errorf("%w: failed to create invoice: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrInvalidSourceBooking):
			uc.logger.Warn("CreateInvoiceFromBooking: booking=%d: %v", req.BookingID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateInvoiceFromBooking: booking=%d: %v", req.BookingID, err)
			return nil, err
		default:
			uc.logger.Error("CreateInvoiceFromBooking: booking=%d: transaction failed: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.metrics.IncInvoiceCreated(sourceBooking)
	uc.logger.Info("CreateInvoiceFromBooking: created invoice %s total=%s for booking=%d",
		result.Number, result.Total, req.BookingID)

	return &Response{Invoice: result}, nil
}
