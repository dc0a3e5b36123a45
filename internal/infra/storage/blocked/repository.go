package blocked

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SkinStudio-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий блокировок календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку
func (r *Repository) Create(ctx context.Context, interval *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_intervals").
		Columns("blocked_date", "start_time", "end_time", "reason").
		Values(
			interval.Date.Format(domain.DateFormat),
			interval.StartTime,
			interval.EndTime,
			interval.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&interval.ID, &interval.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return interval, nil
}

// GetByDate получает блокировки на дату, отсортированные по времени начала
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.BlockedInterval, error) {
	d := date.Format(domain.DateFormat)
	return r.list(ctx, "GetByDate", squirrel.Eq{"blocked_date": d})
}

// GetByPeriod получает блокировки за период [from, to] включительно
func (r *Repository) GetByPeriod(ctx context.Context, from, to time.Time) ([]*domain.BlockedInterval, error) {
	return r.list(ctx, "GetByPeriod", squirrel.And{
		squirrel.GtOrEq{"blocked_date": from.Format(domain.DateFormat)},
		squirrel.LtOrEq{"blocked_date": to.Format(domain.DateFormat)},
	})
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.BlockedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "blocked_date", "start_time", "end_time", "reason", "created_at").
		From("blocked_intervals").
		Where(where).
		OrderBy("blocked_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	intervals := make([]*domain.BlockedInterval, 0)
	for rows.Next() {
		var b domain.BlockedInterval
		if err := rows.Scan(&b.ID, &b.Date, &b.StartTime, &b.EndTime, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		intervals = append(intervals, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return intervals, nil
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_intervals").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrIntervalNotFound
	}

	return nil
}
