package invoice

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

// invoiceRow заполняет номер, покупателя и статус
type invoiceRow struct {
	userID sql.NullInt64
}

func (r invoiceRow) Scan(dest ...interface{}) error {
	*dest[0].(*int64) = 12
	*dest[1].(*string) = "INV-000012"
	*dest[3].(*sql.NullInt64) = r.userID
	*dest[4].(*sql.NullString) = sql.NullString{String: "Ann", Valid: true}
	*dest[5].(*sql.NullString) = sql.NullString{String: "ann@example.com", Valid: true}
	*dest[10].(*domain.InvoiceStatus) = domain.InvoiceSent
	return nil
}

func TestScanInvoice(t *testing.T) {
	t.Run("гость", func(t *testing.T) {
		inv, err := scanInvoice(invoiceRow{})
		require.NoError(t, err)

		assert.Equal(t, int64(12), inv.ID)
		assert.Equal(t, "INV-000012", inv.Number)
		assert.Nil(t, inv.Customer.UserID)
		assert.Equal(t, "Ann", inv.Customer.Name)
		assert.Equal(t, domain.InvoiceSent, inv.Status)
	})

	t.Run("зарегистрированный пользователь", func(t *testing.T) {
		inv, err := scanInvoice(invoiceRow{userID: sql.NullInt64{Int64: 7, Valid: true}})
		require.NoError(t, err)

		require.NotNil(t, inv.Customer.UserID)
		assert.Equal(t, int64(7), *inv.Customer.UserID)
	})
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	require.NotNil(t, nullIfEmpty("x"))
	assert.Equal(t, "x", *nullIfEmpty("x"))
}
