package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	"github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SkinStudio-BookingService/pkg/pgerr"
	"github.com/m04kA/SkinStudio-BookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"service_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"user_id",
	"guest_name",
	"guest_email",
	"guest_phone",
	"service_name",
	"service_price",
	"duration_minutes",
	"notes",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другим активным бронированием отклоняется exclusion constraint в БД
// и возвращается как ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var guestName, guestEmail, guestPhone *string
	if booking.Customer.Guest != nil {
		guestName = &booking.Customer.Guest.Name
		guestEmail = &booking.Customer.Guest.Email
		guestPhone = &booking.Customer.Guest.Phone
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"service_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"user_id",
			"guest_name",
			"guest_email",
			"guest_phone",
			"service_name",
			"service_price",
			"duration_minutes",
			"notes",
		).
		Values(
			booking.ServiceID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.Customer.UserID,
			guestName,
			guestEmail,
			guestPhone,
			booking.ServiceName,
			booking.ServicePrice,
			booking.DurationMinutes,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, translateWriteError("Create", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции блокирует строку (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetActiveByDate получает бронирования на дату, которые занимают календарь
// (pending, confirmed, completed), отсортированные по времени начала.
// Внутри транзакции блокирует строки (FOR UPDATE) для usecase создания бронирования
func (r *Repository) GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"status": statusStrings(domain.BlockingStatuses)}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List получает бронирования с фильтрацией для календаря персонала
// Сортировка по дате и времени (ASC)
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("booking_date ASC", "start_time ASC")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
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

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Обновление условное (WHERE status = from): если статус уже изменился, возвращает ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	builder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()"))

	if to == domain.StatusCompleted {
		builder = builder.Set("completed_at", squirrel.Expr("NOW()"))
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "UpdateStatus", id, query, args)
}

// Cancel отменяет бронирование, находящееся в статусе from
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, by domain.Role, reason *string) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", by).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "Cancel", id, query, args)
}

func (r *Repository) execConditional(ctx context.Context, op string, id int64, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s - booking id=%d", ErrStatusConflict, op, id)
	}

	return nil
}

// translateWriteError переводит ошибки PostgreSQL в ошибки репозитория
func translateWriteError(op string, err error) error {
	switch {
	case pgerr.IsExclusionViolation(err), pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s - %v", ErrSlotNotAvailable, op, err)
	case pgerr.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s - %v", ErrServiceNotFound, op, err)
	default:
		return fmt.Errorf("%w: %s - execute insert: %v", ErrExecQuery, op, err)
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                                 domain.Booking
		userID                            sql.NullInt64
		guestName, guestEmail, guestPhone sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&userID,
		&guestName,
		&guestEmail,
		&guestPhone,
		&b.ServiceName,
		&b.ServicePrice,
		&b.DurationMinutes,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledBy,
		&b.CancelledAt,
		&b.CompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		id := userID.Int64
		b.Customer.UserID = &id
	}
	if guestName.Valid || guestEmail.Valid {
		b.Customer.Guest = &domain.GuestContact{
			Name:  guestName.String,
			Email: guestEmail.String,
			Phone: guestPhone.String,
		}
	}

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
