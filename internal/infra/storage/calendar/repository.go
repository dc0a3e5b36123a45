package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SkinStudio-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/SkinStudio-BookingService/pkg/types"
)

// settingsRowID в calendar_settings хранится одна строка
const settingsRowID = 1

// Repository репозиторий правил календаря (настройки + часы работы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает сохранённые правила календаря
// Возвращает ErrRulesNotFound, если настройки ещё не сохранялись
func (r *Repository) Get(ctx context.Context) (*domain.CalendarRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_granularity_minutes",
		"lead_days",
		"cancellation_window_minutes",
		"updated_at",
	).
		From("calendar_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		rules         domain.CalendarRules
		windowMinutes int
		updatedAt     time.Time
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.SlotGranularityMinutes,
		&rules.LeadDays,
		&windowMinutes,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	rules.CancellationWindow = time.Duration(windowMinutes) * time.Minute
	rules.UpdatedAt = &updatedAt

	hours, err := r.getBusinessHours(ctx, executor)
	if err != nil {
		return nil, err
	}
	rules.Hours = hours

	return &rules, nil
}

func (r *Repository) getBusinessHours(ctx context.Context, executor DBExecutor) (domain.BusinessHours, error) {
	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time").
		From("business_hours").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := domain.BusinessHours{}
	for rows.Next() {
		var (
			weekday             int
			openTime, closeTime types.TimeString
		)
		if err := rows.Scan(&weekday, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: getBusinessHours - scan row: %v", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = domain.DayHours{Open: openTime, Close: closeTime}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBusinessHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// Save сохраняет правила календаря целиком: настройки обновляются upsert'ом,
// часы работы перезаписываются.
// Вызывать внутри транзакции, иначе возможна частичная запись
func (r *Repository) Save(ctx context.Context, rules *domain.CalendarRules) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("calendar_settings").
		Columns("id", "slot_granularity_minutes", "lead_days", "cancellation_window_minutes").
		Values(
			settingsRowID,
			rules.SlotGranularityMinutes,
			rules.LeadDays,
			int(rules.CancellationWindow/time.Minute),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			lead_days = EXCLUDED.lead_days,
			cancellation_window_minutes = EXCLUDED.cancellation_window_minutes,
			updated_at = NOW()
			RETURNING updated_at`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}
	rules.UpdatedAt = &updatedAt

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("business_hours").ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Save - delete business hours: %v", ErrExecQuery, err)
	}

	if len(rules.Hours) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("business_hours").Columns("weekday", "open_time", "close_time")
	for _, wd := range rules.Hours.Weekdays() {
		h := rules.Hours[wd]
		insert = insert.Values(int(wd), h.Open, h.Close)
	}

	insertQuery, insertArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: Save - insert business hours: %v", ErrExecQuery, err)
	}

	return nil
}
