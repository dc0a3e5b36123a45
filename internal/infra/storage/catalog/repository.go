package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SkinStudio-BookingService/pkg/psqlbuilder"
)

var serviceColumns = []string{"id", "name", "description", "duration_minutes", "price", "is_active"}

// Repository чтение каталога услуг
// Каталогом владеет внешняя система, здесь только чтение и переключение активности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s           domain.Service
		description sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&description,
		&s.DurationMinutes,
		&s.Price,
		&s.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}
	s.Description = description.String

	return &s, nil
}

// List получает услуги каталога, отсортированные по названию
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		OrderBy("name ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var (
			s           domain.Service
			description sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &description, &s.DurationMinutes, &s.Price, &s.IsActive); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		s.Description = description.String
		services = append(services, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// ExistingIDs возвращает подмножество ids, которые есть в каталоге
func (r *Repository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("services").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExistingIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExistingIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	found := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExistingIDs - scan id: %v", ErrScanRow, err)
		}
		found = append(found, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExistingIDs - rows error: %v", ErrScanRow, err)
	}

	return found, nil
}

// SetActive выставляет признак активности услугам ids
// Обновляются только строки, где значение отличается, поэтому повторный вызов вернёт 0
func (r *Repository) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("is_active", active).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.NotEq{"is_active": active}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SetActive - execute update: %v", ErrExecQuery, err)
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}

	return changed, nil
}
