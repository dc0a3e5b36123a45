package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance/models"
)

// ErrInvalidSchedule возвращается при некорректном cron выражении
var ErrInvalidSchedule = errors.New("scheduler: invalid cron expression")

// OverdueSweeper интерфейс операции перевода просроченных счетов
type OverdueSweeper interface {
	SweepOverdueInvoices(ctx context.Context) (*models.SweepResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler запускает обслуживание по расписанию
type Scheduler struct {
	cron    *cron.Cron
	sweeper OverdueSweeper
	timeout time.Duration
	logger  Logger
}

// New создает планировщик. spec - стандартное 5-польное cron выражение,
// расписание интерпретируется в часовом поясе студии
func New(spec string, location *time.Location, sweeper OverdueSweeper, timeout time.Duration, logger Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(location), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		timeout: timeout,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}

	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler: started")
}

// Stop останавливает планировщик и ждёт завершения запущенных задач или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler: stopped")
	case <-ctx.Done():
		s.logger.Error("Scheduler: stop timed out: %v", ctx.Err())
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	resp, err := s.sweeper.SweepOverdueInvoices(ctx)
	if err != nil {
		s.logger.Error("Scheduler: overdue sweep failed: %v", err)
		return
	}
	s.logger.Info("Scheduler: overdue sweep marked %d invoices", resp.Updated)
}
