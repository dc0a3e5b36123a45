package invoice

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

var invoiceColumns = []string{
	"id",
	"number",
	"booking_id",
	"customer_user_id",
	"customer_name",
	"customer_email",
	"subtotal",
	"tax_rate",
	"tax_amount",
	"total",
	"status",
	"issue_date",
	"due_date",
	"notes",
	"paid_at",
	"payment_method",
	"payment_reference",
	"created_at",
	"updated_at",
}

// Repository репозиторий счетов и их позиций
// Операции, затрагивающие несколько таблиц, нужно вызывать внутри транзакции
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextNumber выдаёт следующий номер счета из последовательности invoice_number_seq
func (r *Repository) NextNumber(ctx context.Context) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var seq int64
	if err := executor.QueryRowContext(ctx, "SELECT nextval('invoice_number_seq')").Scan(&seq); err != nil {
		return "", fmt.Errorf("%w: NextNumber - nextval: %v", ErrExecQuery, err)
	}

	return domain.FormatInvoiceNumber(seq), nil
}

// Create создает счет вместе с позициями
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"number",
			"booking_id",
			"customer_user_id",
			"customer_name",
			"customer_email",
			"subtotal",
			"tax_rate",
			"tax_amount",
			"total",
			"status",
			"issue_date",
			"due_date",
			"notes",
		).
		Values(
			inv.Number,
			inv.BookingID,
			inv.Customer.UserID,
			nullIfEmpty(inv.Customer.Name),
			nullIfEmpty(inv.Customer.Email),
			inv.Subtotal,
			inv.TaxRate,
			inv.TaxAmount,
			inv.Total,
			inv.Status,
			inv.IssueDate.Format(domain.DateFormat),
			inv.DueDate.Format(domain.DateFormat),
			inv.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - number=%s", ErrDuplicateNumber, inv.Number)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertItems(ctx, executor, inv.ID, inv.Items); err != nil {
		return nil, err
	}

	return inv, nil
}

// GetByID получает счет с позициями
// Внутри транзакции блокирует строку счета (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	inv, err := scanInvoice(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan invoice: %v", ErrScanRow, err)
	}

	items, err := r.getItems(ctx, executor, []int64{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]

	return inv, nil
}

// List получает счета с позициями, отсортированные по дате выставления и номеру
func (r *Repository) List(ctx context.Context, filter domain.InvoicesFilter) ([]*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		OrderBy("issue_date DESC", "number DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.BookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_id": *filter.BookingID})
	}
	if filter.IssuedFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"issue_date": filter.IssuedFrom.Format(domain.DateFormat)})
	}
	if filter.IssuedTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"issue_date": filter.IssuedTo.Format(domain.DateFormat)})
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

	return r.queryInvoices(ctx, executor, "List", query, args)
}

// GetOpenDueBefore получает неоплаченные счета (pending, sent) со сроком оплаты раньше date
// Внутри транзакции блокирует строки (FOR UPDATE)
func (r *Repository) GetOpenDueBefore(ctx context.Context, date time.Time) ([]*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"status": []string{string(domain.InvoicePending), string(domain.InvoiceSent)}}).
		Where(squirrel.Lt{"due_date": date.Format(domain.DateFormat)}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenDueBefore - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryInvoices(ctx, executor, "GetOpenDueBefore", query, args)
}

func (r *Repository) queryInvoices(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Invoice, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan invoice: %v", ErrScanRow, op, err)
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if len(ids) == 0 {
		return invoices, nil
	}

	items, err := r.getItems(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		inv.Items = items[inv.ID]
	}

	return invoices, nil
}

// Update сохраняет редактируемые поля счета и перезаписывает позиции
func (r *Repository) Update(ctx context.Context, inv *domain.Invoice) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("customer_user_id", inv.Customer.UserID).
		Set("customer_name", nullIfEmpty(inv.Customer.Name)).
		Set("customer_email", nullIfEmpty(inv.Customer.Email)).
		Set("subtotal", inv.Subtotal).
		Set("tax_rate", inv.TaxRate).
		Set("tax_amount", inv.TaxAmount).
		Set("total", inv.Total).
		Set("due_date", inv.DueDate.Format(domain.DateFormat)).
		Set("notes", inv.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": inv.ID, "status": domain.InvoicePending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: Update - invoice id=%d is no longer pending", ErrStatusConflict, inv.ID)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("invoice_line_items").
		Where(squirrel.Eq{"invoice_id": inv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build delete items query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Update - delete items: %v", ErrExecQuery, err)
	}

	return r.insertItems(ctx, executor, inv.ID, inv.Items)
}

// UpdateStatus переводит счет из статуса from в inv.Status и сохраняет платёжные данные
// Обновление условное (WHERE status = from)
func (r *Repository) UpdateStatus(ctx context.Context, inv *domain.Invoice, from domain.InvoiceStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("status", inv.Status).
		Set("paid_at", inv.PaidAt).
		Set("payment_method", inv.PaymentMethod).
		Set("payment_reference", inv.PaymentReference).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": inv.ID, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: UpdateStatus - invoice id=%d", ErrStatusConflict, inv.ID)
	}

	return nil
}

// AddStatusChange записывает переход статуса в историю
func (r *Repository) AddStatusChange(ctx context.Context, change *domain.InvoiceStatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoice_status_history").
		Columns(
			"invoice_id",
			"from_status",
			"to_status",
			"actor_id",
			"reason",
			"payment_method",
			"payment_reference",
		).
		Values(
			change.InvoiceID,
			change.FromStatus,
			change.ToStatus,
			change.ActorID,
			change.Reason,
			change.PaymentMethod,
			change.PaymentReference,
		).
		Suffix("RETURNING id, changed_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddStatusChange - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&change.ID, &change.ChangedAt); err != nil {
		return fmt.Errorf("%w: AddStatusChange - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetStatusHistory получает историю переходов статуса счета в хронологическом порядке
func (r *Repository) GetStatusHistory(ctx context.Context, invoiceID int64) ([]*domain.InvoiceStatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"invoice_id",
		"from_status",
		"to_status",
		"actor_id",
		"reason",
		"payment_method",
		"payment_reference",
		"changed_at",
	).
		From("invoice_status_history").
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("changed_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStatusHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStatusHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]*domain.InvoiceStatusChange, 0)
	for rows.Next() {
		var c domain.InvoiceStatusChange
		if err := rows.Scan(
			&c.ID,
			&c.InvoiceID,
			&c.FromStatus,
			&c.ToStatus,
			&c.ActorID,
			&c.Reason,
			&c.PaymentMethod,
			&c.PaymentReference,
			&c.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetStatusHistory - scan row: %v", ErrScanRow, err)
		}
		history = append(history, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStatusHistory - rows error: %v", ErrScanRow, err)
	}

	return history, nil
}

func (r *Repository) insertItems(ctx context.Context, executor DBExecutor, invoiceID int64, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("invoice_line_items").
		Columns("invoice_id", "position", "name", "description", "quantity", "unit_price")
	for _, item := range items {
		insert = insert.Values(invoiceID, item.Position, item.Name, item.Description, item.Quantity, item.UnitPrice)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertItems - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertItems - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getItems(ctx context.Context, executor DBExecutor, invoiceIDs []int64) (map[int64][]domain.LineItem, error) {
	query, args, err := psqlbuilder.Select("id", "invoice_id", "position", "name", "description", "quantity", "unit_price").
		From("invoice_line_items").
		Where(squirrel.Eq{"invoice_id": invoiceIDs}).
		OrderBy("invoice_id ASC", "position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.LineItem, len(invoiceIDs))
	for rows.Next() {
		var (
			item      domain.LineItem
			invoiceID int64
		)
		if err := rows.Scan(&item.ID, &invoiceID, &item.Position, &item.Name, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("%w: getItems - scan row: %v", ErrScanRow, err)
		}
		items[invoiceID] = append(items[invoiceID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var (
		inv                 domain.Invoice
		customerUserID      sql.NullInt64
		customerName, email sql.NullString
	)

	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.BookingID,
		&customerUserID,
		&customerName,
		&email,
		&inv.Subtotal,
		&inv.TaxRate,
		&inv.TaxAmount,
		&inv.Total,
		&inv.Status,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Notes,
		&inv.PaidAt,
		&inv.PaymentMethod,
		&inv.PaymentReference,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerUserID.Valid {
		id := customerUserID.Int64
		inv.Customer.UserID = &id
	}
	inv.Customer.Name = customerName.String
	inv.Customer.Email = email.String

	return &inv, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
