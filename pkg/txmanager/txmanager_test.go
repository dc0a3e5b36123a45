package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	lastOpts *sql.TxOptions
	calls    int
	err      error
}

func (f *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestTxManager_Do(t *testing.T) {
	t.Run("коммит при успехе", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := New(b, nopLogger{})

		err := m.Do(context.Background(), func(ctx context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(ctx))
			return nil
		})

		require.NoError(t, err)
		assert.True(t, b.tx.committed)
		assert.False(t, b.tx.rolledBack)
	})

	t.Run("откат при ошибке", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := New(b, nopLogger{})
		fnErr := errors.New("boom")

		err := m.Do(context.Background(), func(ctx context.Context) error {
			return fnErr
		})

		assert.ErrorIs(t, err, fnErr)
		assert.False(t, b.tx.committed)
		assert.True(t, b.tx.rolledBack)
	})

	t.Run("ошибка начала транзакции", func(t *testing.T) {
		b := &fakeBeginner{err: errors.New("conn refused")}
		m := New(b, nopLogger{})

		err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrBeginTx)
	})

	t.Run("ошибка коммита", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization")}}
		m := New(b, nopLogger{})

		err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrCommitTx)
	})

	t.Run("вложенный вызов не открывает новую транзакцию", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := New(b, nopLogger{})

		err := m.Do(context.Background(), func(ctx context.Context) error {
			return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
		})

		require.NoError(t, err)
		assert.Equal(t, 1, b.calls)
	})
}

func TestTxManager_Isolation(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := New(b, nopLogger{})

	require.NoError(t, m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil }))
	assert.Equal(t, sql.LevelSerializable, b.lastOpts.Isolation)

	b.tx = &fakeTx{}
	require.NoError(t, m.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil }))
	assert.True(t, b.lastOpts.ReadOnly)
}
