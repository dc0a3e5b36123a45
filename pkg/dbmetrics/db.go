package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

// QueryObserver получатель метрик запросов. *metrics.Metrics удовлетворяет интерфейсу
type QueryObserver interface {
	ObserveDBQuery(operation string, duration time.Duration)
	SetDBPoolStats(open, inUse, idle int, waitCount int64)
}

// DB обёртка над *sql.DB, записывающая длительность запросов
type DB struct {
	db       *sql.DB
	observer QueryObserver
}

// Wrap оборачивает *sql.DB. observer может быть nil
func Wrap(db *sql.DB, observer QueryObserver) *DB {
	return &DB{db: db, observer: observer}
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор статистики пула
// до закрытия stopCh
func WrapWithDefault(db *sql.DB, observer QueryObserver, interval time.Duration, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, observer)
	if observer != nil {
		go wrapped.collectPoolStats(interval, stopCh)
	}
	return wrapped
}

// Unwrap возвращает исходный *sql.DB
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe("exec", time.Now())
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe("query", time.Now())
	return d.db.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe("query_row", time.Now())
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx открывает транзакцию с метриками
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &SqlTxWrapper{tx: tx, observer: d.observer}, nil
}

func (d *DB) observe(operation string, start time.Time) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveDBQuery(operation, time.Since(start))
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s := d.db.Stats()
			d.observer.SetDBPoolStats(s.OpenConnections, s.InUse, s.Idle, s.WaitCount)
		}
	}
}

// SqlTxWrapper обёртка над *sql.Tx
type SqlTxWrapper struct {
	tx       *sql.Tx
	observer QueryObserver
}

func (t *SqlTxWrapper) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer t.observe("tx_exec", time.Now())
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *SqlTxWrapper) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer t.observe("tx_query", time.Now())
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *SqlTxWrapper) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer t.observe("tx_query_row", time.Now())
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t *SqlTxWrapper) Commit() error {
	return t.tx.Commit()
}

func (t *SqlTxWrapper) Rollback() error {
	return t.tx.Rollback()
}

func (t *SqlTxWrapper) observe(operation string, start time.Time) {
	if t.observer == nil {
		return
	}
	t.observer.ObserveDBQuery(operation, time.Since(start))
}
