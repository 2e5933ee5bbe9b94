package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWhere_NumbersPlaceholders(t *testing.T) {
	var w where
	w.add("category_id = ?::uuid", "c1")
	w.add("(name ILIKE ? OR sku ILIKE ?)", "%x%")
	w.raw("quantity = 0")

	assert.Equal(t, " WHERE category_id = $1::uuid AND (name ILIKE $2 OR sku ILIKE $2) AND quantity = 0", w.sql())
	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(20, 40))
	assert.Equal(t, []any{"c1", "%x%", 20, 40}, w.args)
}

func TestWhere_Empty(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())
	assert.Equal(t, " LIMIT $1 OFFSET $2", w.page(10, 0))
}

func TestWriteError(t *testing.T) {
	unique := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	other := errors.New("conexión cerrada")

	assert.ErrorIs(t, writeError("insert product", unique), domain.ErrDuplicate)
	assert.ErrorIs(t, writeError("delete supplier", fk), domain.ErrConflict)

	err := writeError("insert product", other)
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "insert product")
}
