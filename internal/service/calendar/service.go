package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	calendarRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/calendar"
	"github.com/m04kA/SkinStudio-BookingService/internal/service/calendar/models"
)

// Service сервис правил календаря
// Пока правила не сохранены в БД, действуют значения из конфига
type Service struct {
	repo      CalendarRepository
	txManager TransactionManager
	defaults  domain.CalendarRules
	location  *time.Location
	logger    Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	repo CalendarRepository,
	txManager TransactionManager,
	defaults domain.CalendarRules,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		defaults:  defaults,
		location:  location,
		logger:    logger,
	}
}

// Location часовой пояс студии
func (s *Service) Location() *time.Location {
	return s.location
}

// GetRules возвращает действующие правила календаря
// Внутри транзакции читает из неё же
func (s *Service) GetRules(ctx context.Context) (*domain.CalendarRules, error) {
	rules, _, err := s.getRules(ctx)
	return rules, err
}

// Get возвращает правила календаря для API
func (s *Service) Get(ctx context.Context) (*models.CalendarResponse, error) {
	s.logger.Info("Get: fetching calendar rules")

	rules, source, err := s.getRules(ctx)
	if err != nil {
		return nil, err
	}

	return models.FromDomainRules(rules, s.location, source), nil
}

// Update изменяет правила календаря
// Доступно только персоналу (проверяется на уровне middleware)
func (s *Service) Update(ctx context.Context, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("Update: updating calendar rules")

	var result *domain.CalendarRules

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Текущие правила
		rules, _, err := s.getRules(txCtx)
		if err != nil {
			return err
		}

		// 2. Применяем изменения к копии
		updated := *rules
		if err := req.ApplyTo(&updated); err != nil {
			s.logger.Warn("Update: invalid hours: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 3. Валидация
		if err := updated.Validate(); err != nil {
			s.logger.Warn("Update: validation failed: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 4. Сохраняем
		if err := s.repo.Save(txCtx, &updated); err != nil {
			s.logger.Error("Update: repository error: %v", err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		result = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: calendar rules saved, %d open weekdays", len(result.Hours))
	return models.FromDomainRules(result, s.location, models.SourceStored), nil
}

func (s *Service) getRules(ctx context.Context) (*domain.CalendarRules, string, error) {
	rules, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrRulesNotFound) {
			return s.defaultRules(), models.SourceDefault, nil
		}
		s.logger.Error("GetRules: repository error: %v", err)
		return nil, "", fmt.Errorf("%w: GetRules - repository error: %v", ErrInternal, err)
	}
	return rules, models.SourceStored, nil
}

// defaultRules копия правил из конфига, чтобы вызывающий не мог их изменить
func (s *Service) defaultRules() *domain.CalendarRules {
	rules := s.defaults
	rules.Hours = make(domain.BusinessHours, len(s.defaults.Hours))
	for wd, h := range s.defaults.Hours {
		rules.Hours[wd] = h
	}
	return &rules
}
