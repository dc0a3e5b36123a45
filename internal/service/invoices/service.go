package invoices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	invoiceRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/invoice"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/invoices/models"
)

// Источники создания счета для метрик
const (
	SourceManual  = "manual"
	SourceBooking = "booking"
)

// Service сервис счетов
type Service struct {
	invoiceRepo  InvoiceRepository
	exporter     Exporter
	txManager    TransactionManager
	policy       domain.BillingPolicy
	location     *time.Location
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса счетов
func NewService(
	invoiceRepo InvoiceRepository,
	exporter Exporter,
	txManager TransactionManager,
	policy domain.BillingPolicy,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		invoiceRepo:  invoiceRepo,
		exporter:     exporter,
		txManager:    txManager,
		policy:       policy,
		location:     location,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateManual создает счет без привязки к бронированию
func (s *Service) CreateManual(ctx context.Context, req *models.CreateInvoiceRequest) (*models.InvoiceResponse, error) {
	s.logger.Info("CreateManual: creating invoice with %d items", len(req.Items))

	today := s.today()
	inv := &domain.Invoice{
		Customer:  req.Customer.ToDomain(),
		Items:     models.ToDomainLineItems(req.Items),
		Status:    domain.InvoicePending,
		IssueDate: today,
		DueDate:   s.policy.DueDate(today),
		Notes:     normalizeNotes(req.Notes),
	}
	if req.DueDate != nil {
		inv.DueDate = domain.DateIn(*req.DueDate, s.location)
	}

	if err := validateInvoice(inv); err != nil {
		s.logger.Warn("CreateManual: validation failed: %v", err)
		return nil, err
	}
	inv.Recalculate(s.policy.TaxRate)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		number, err := s.invoiceRepo.NextNumber(txCtx)
		if err != nil {
			return err
		}
		inv.Number = number

		_, err = s.invoiceRepo.Create(txCtx, inv)
		return err
	})
	if err != nil {
		s.logger.Error("CreateManual: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateManual - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncInvoiceCreated(SourceManual)
	s.logger.Info("CreateManual: created invoice id=%d number=%s total=%s", inv.ID, inv.Number, inv.Total)
	return models.FromDomainInvoice(inv), nil
}

// GetByID получает счет вместе с историей статусов
func (s *Service) GetByID(ctx context.Context, id int64) (*models.InvoiceResponse, error) {
	s.logger.Info("GetByID: fetching invoice id=%d", id)

	inv, err := s.getInvoice(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	history, err := s.invoiceRepo.GetStatusHistory(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get history for invoice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainInvoice(inv).WithHistory(history), nil
}

// List получает счета по фильтру
func (s *Service) List(ctx context.Context, req *models.ListInvoicesRequest) (*models.InvoiceListResponse, error) {
	s.logger.Info("List: fetching invoices")

	invoices, err := s.list(ctx, "List", req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("List: successfully fetched %d invoices", len(invoices))
	return models.FromDomainInvoiceList(invoices), nil
}

// Export выгружает счета по фильтру в w (пагинация игнорируется)
func (s *Service) Export(ctx context.Context, req *models.ListInvoicesRequest, w io.Writer) error {
	s.logger.Info("Export: exporting invoices")

	exportReq := *req
	exportReq.Limit, exportReq.Offset = 0, 0

	invoices, err := s.list(ctx, "Export", &exportReq)
	if err != nil {
		return err
	}

	if err := s.exporter.Write(w, invoices); err != nil {
		s.logger.Error("Export: failed to write file: %v", err)
		return fmt.Errorf("%w: Export - write file: %v", ErrInternal, err)
	}

	s.logger.Info("Export: exported %d invoices", len(invoices))
	return nil
}

// ExportContentType MIME тип файла выгрузки
func (s *Service) ExportContentType() string {
	return s.exporter.ContentType()
}

// Update изменяет счет в статусе pending и пересчитывает суммы
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateInvoiceRequest) (*models.InvoiceResponse, error) {
	s.logger.Info("Update: updating invoice id=%d", id)

	var result *domain.Invoice

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Счет с блокировкой строки
		inv, err := s.getInvoice(txCtx, "Update", id)
		if err != nil {
			return err
		}

		// 2. Редактировать можно только pending
		if !inv.IsEditable() {
			return fmt.Errorf("%w: invoice is %s", ErrInvoiceNotEditable, inv.Status)
		}

		// 3. Применяем изменения
		if req.Customer != nil {
			inv.Customer = req.Customer.ToDomain()
		}
		if req.Items != nil {
			inv.Items = models.ToDomainLineItems(req.Items)
		}
		if req.Notes != nil {
			inv.Notes = normalizeNotes(req.Notes)
		}
		if req.DueDate != nil {
			inv.DueDate = domain.DateIn(*req.DueDate, s.location)
		}

		if err := validateInvoice(inv); err != nil {
			return err
		}

		// 4. Полный пересчёт по ставке, зафиксированной в счете
		inv.Recalculate(inv.TaxRate)

		if err := s.invoiceRepo.Update(txCtx, inv); err != nil {
			if errors.Is(err, invoiceRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: status changed concurrently", ErrInvoiceNotEditable)
			}
			return err
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, s.handleError("Update", id, err)
	}

	s.logger.Info("Update: invoice id=%d updated, total=%s", id, result.Total)
	return models.FromDomainInvoice(result), nil
}

// UpdateStatus переводит счет в новый статус и пишет запись в историю
// Возврат в pending из paid/cancelled требует причину и очищает платёжные данные
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.InvoiceResponse, error) {
	s.logger.Info("UpdateStatus: invoice id=%d -> %s", id, req.Status)

	to := domain.InvoiceStatus(req.Status)
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", ErrInvalidInput, req.Status)
	}
	if req.Payment != nil && to != domain.InvoicePaid {
		return nil, fmt.Errorf("%w: payment details are accepted only for status %s", ErrInvalidInput, domain.InvoicePaid)
	}
	if req.Payment != nil && strings.TrimSpace(req.Payment.Method) == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	var (
		result *domain.Invoice
		from   domain.InvoiceStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		inv, err := s.getInvoice(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}
		from = inv.Status

		if !from.CanTransitionTo(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}

		reason := normalizeNotes(req.Reason)
		if from.IsReactivation(to) && reason == nil {
			return fmt.Errorf("%w: reason is required to reopen a %s invoice", ErrInvalidInput, from)
		}

		s.applyPayment(inv, to, req.Payment)
		inv.Status = to

		if err := s.invoiceRepo.UpdateStatus(txCtx, inv, from); err != nil {
			if errors.Is(err, invoiceRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
			}
			return err
		}

		change := &domain.InvoiceStatusChange{
			InvoiceID:  id,
			FromStatus: from,
			ToStatus:   to,
			ActorID:    req.ActorID,
			Reason:     reason,
		}
		if to == domain.InvoicePaid {
			change.PaymentMethod = inv.PaymentMethod
			change.PaymentReference = inv.PaymentReference
		}
		if err := s.invoiceRepo.AddStatusChange(txCtx, change); err != nil {
			return err
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, s.handleError("UpdateStatus", id, err)
	}

	s.metrics.IncInvoiceTransition(string(from), string(to))
	s.logger.Info("UpdateStatus: invoice id=%d %s -> %s", id, from, to)
	return models.FromDomainInvoice(result), nil
}

// Вспомогательные методы

// applyPayment paid сохраняет платёжные данные, возврат в pending их очищает
func (s *Service) applyPayment(inv *domain.Invoice, to domain.InvoiceStatus, payment *models.PaymentInput) {
	switch {
	case to == domain.InvoicePaid:
		paidAt := s.timeProvider.Now()
		inv.PaymentMethod, inv.PaymentReference = nil, nil
		if payment != nil {
			method := strings.TrimSpace(payment.Method)
			inv.PaymentMethod = &method
			inv.PaymentReference = normalizeNotes(payment.Reference)
			if payment.PaidAt != nil {
				paidAt = *payment.PaidAt
			}
		}
		inv.PaidAt = &paidAt
	case inv.Status.IsReactivation(to):
		inv.PaidAt, inv.PaymentMethod, inv.PaymentReference = nil, nil, nil
	}
}

func (s *Service) getInvoice(ctx context.Context, op string, id int64) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			s.logger.Warn("%s: invoice id=%d not found", op, id)
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("%s: repository error for invoice id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return inv, nil
}

func (s *Service) list(ctx context.Context, op string, req *models.ListInvoicesRequest) ([]*domain.Invoice, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("%s: invalid filter: %v", op, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	invoices, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return invoices, nil
}

func (s *Service) handleError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, ErrInvoiceNotFound),
		errors.Is(err, ErrInvoiceNotEditable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInternal):
		s.logger.Warn("%s: invoice id=%d: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: repository error for invoice id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) today() time.Time {
	return domain.DateIn(s.timeProvider.Now().In(s.location), s.location)
}

// validateInvoice проверяет получателя, позиции и срок оплаты
func validateInvoice(inv *domain.Invoice) error {
	if err := inv.Customer.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := inv.ValidateItems(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return fmt.Errorf("%w: due date must not be before issue date", ErrInvalidInput)
	}
	if inv.Notes != nil && len(*inv.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

func normalizeNotes(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
