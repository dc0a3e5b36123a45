package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := Wrap(&sql.DB{}, nil)

	t.Run("без транзакции возвращает db", func(t *testing.T) {
		ctx := context.Background()
		assert.False(t, IsInTransaction(ctx))
		assert.Same(t, db, GetExecutor(ctx, db))
	})

	t.Run("внутри транзакции возвращает tx", func(t *testing.T) {
		tx := &fakeTx{}
		ctx := WithTx(context.Background(), tx)
		assert.True(t, IsInTransaction(ctx))
		assert.Same(t, tx, GetExecutor(ctx, db))
	})
}
