package maintenance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	invoiceRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/invoice"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance/models"
)

const (
	// overdueReason причина, записываемая в историю при автоматическом переводе
	overdueReason = "due date passed"

	maxServiceIDs = 1000
)

// Service сервисные операции над каталогом и счетами
// Обе операции идемпотентны: повторный запуск ничего не меняет
type Service struct {
	catalog      ServiceCatalog
	invoiceRepo  InvoiceRepository
	txManager    TransactionManager
	location     *time.Location
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса обслуживания
func NewService(
	catalog ServiceCatalog,
	invoiceRepo InvoiceRepository,
	txManager TransactionManager,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		catalog:      catalog,
		invoiceRepo:  invoiceRepo,
		txManager:    txManager,
		location:     location,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetServicesActive включает или выключает услуги. Все ID должны существовать,
// иначе ничего не меняется. Возвращает число реально изменённых услуг
func (s *Service) SetServicesActive(ctx context.Context, req *models.SetServicesActiveRequest) (*models.SetServicesActiveResponse, error) {
	s.logger.Info("SetServicesActive: ids=%v active=%t", req.ServiceIDs, req.Active)

	// 1. Валидация списка
	if err := validateServiceIDs(req.ServiceIDs); err != nil {
		s.logger.Warn("SetServicesActive: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка существования
	existing, err := s.catalog.ExistingIDs(ctx, req.ServiceIDs)
	if err != nil {
		s.logger.Error("SetServicesActive: failed to check services: %v", err)
		return nil, fmt.Errorf("%w: SetServicesActive - check services: %v", ErrInternal, err)
	}
	if missing := difference(req.ServiceIDs, existing); len(missing) > 0 {
		s.logger.Warn("SetServicesActive: unknown services %v", missing)
		return nil, fmt.Errorf("%w: %v", ErrUnknownServices, missing)
	}

	// 3. Обновление (кэш инвалидируется внутри каталога)
	changed, err := s.catalog.SetActive(ctx, req.ServiceIDs, req.Active)
	if err != nil {
		s.logger.Error("SetServicesActive: failed to update services: %v", err)
		return nil, fmt.Errorf("%w: SetServicesActive - update services: %v", ErrInternal, err)
	}

	s.logger.Info("SetServicesActive: changed %d of %d services", changed, len(req.ServiceIDs))
	return &models.SetServicesActiveResponse{
		Requested: len(req.ServiceIDs),
		Changed:   changed,
		Active:    req.Active,
	}, nil
}

// SweepOverdueInvoices переводит в overdue все pending/sent счета со сроком оплаты раньше сегодняшнего дня
func (s *Service) SweepOverdueInvoices(ctx context.Context) (*models.SweepResponse, error) {
	today := domain.DateIn(s.timeProvider.Now().In(s.location), s.location)
	s.logger.Info("SweepOverdueInvoices: due before %s", today.Format(domain.DateFormat))

	type transition struct {
		from domain.InvoiceStatus
		id   int64
	}
	var done []transition

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		done = done[:0]

		invoices, err := s.invoiceRepo.GetOpenDueBefore(txCtx, today)
		if err != nil {
			return err
		}

		reason := overdueReason
		for _, inv := range invoices {
			from := inv.Status
			if !from.CanTransitionTo(domain.InvoiceOverdue) {
				continue
			}

			inv.Status = domain.InvoiceOverdue
			if err := s.invoiceRepo.UpdateStatus(txCtx, inv, from); err != nil {
				if errors.Is(err, invoiceRepo.ErrStatusConflict) {
					s.logger.Warn("SweepOverdueInvoices: invoice id=%d changed concurrently, skipped", inv.ID)
					continue
				}
				return err
			}

			if err := s.invoiceRepo.AddStatusChange(txCtx, &domain.InvoiceStatusChange{
				InvoiceID:  inv.ID,
				FromStatus: from,
				ToStatus:   domain.InvoiceOverdue,
				Reason:     &reason,
			}); err != nil {
				return err
			}

			done = append(done, transition{from: from, id: inv.ID})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SweepOverdueInvoices: failed: %v", err)
		return nil, fmt.Errorf("%w: SweepOverdueInvoices - %v", ErrInternal, err)
	}

	resp := &models.SweepResponse{
		Date:       today.Format(domain.DateFormat),
		Updated:    len(done),
		InvoiceIDs: make([]int64, 0, len(done)),
	}
	for _, t := range done {
		s.metrics.IncInvoiceTransition(string(t.from), string(domain.InvoiceOverdue))
		resp.InvoiceIDs = append(resp.InvoiceIDs, t.id)
	}

	s.logger.Info("SweepOverdueInvoices: %d invoices marked overdue", resp.Updated)
	return resp, nil
}

func validateServiceIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: serviceIds must not be empty", ErrInvalidInput)
	}
	if len(ids) > maxServiceIDs {
		return fmt.Errorf("%w: at most %d serviceIds per request", ErrInvalidInput, maxServiceIDs)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: serviceId must be positive, got %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate serviceId %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// difference ID из want, которых нет в have, по возрастанию
func difference(want, have []int64) []int64 {
	present := make(map[int64]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}

	var missing []int64
	for _, id := range want {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
