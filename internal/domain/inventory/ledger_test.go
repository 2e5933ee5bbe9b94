package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

func TestReceive_SumaCantidad(t *testing.T) {
	got, err := inventory.Receive(20, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(25), got)
}

func TestDispense_StockInsuficienteNoModifica(t *testing.T) {
	got, err := inventory.Dispense(5, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(5), got, "el stock no debe cambiar")

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(10), stockErr.Requested)
}

func TestDispense_TodoElStock(t *testing.T) {
	got, err := inventory.Dispense(15, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestCantidadNoPositiva_EsValidacion(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (int64, error)
	}{
		{"receive cero", func() (int64, error) { return inventory.Receive(10, 0) }},
		{"dispense negativo", func() (int64, error) { return inventory.Dispense(10, -1) }},
		{"reverse cero", func() (int64, error) { return inventory.Reverse(10, 0, inventory.DirectionDispense) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, int64(10), got)
		})
	}
}

func TestReverse_EsInversaExacta(t *testing.T) {
	afterDispense, err := inventory.Dispense(20, 7)
	require.NoError(t, err)
	restored, err := inventory.Reverse(afterDispense, 7, inventory.DirectionDispense)
	require.NoError(t, err)
	assert.Equal(t, int64(20), restored)

	afterReceive, err := inventory.Receive(20, 4)
	require.NoError(t, err)
	restored, err = inventory.Reverse(afterReceive, 4, inventory.DirectionReceive)
	require.NoError(t, err)
	assert.Equal(t, int64(20), restored)
}

func TestReverse_EntradaQueDejaNegativo_EsInconsistencia(t *testing.T) {
	got, err := inventory.Reverse(3, 5, inventory.DirectionReceive)
	assert.ErrorIs(t, err, domain.ErrLedgerInconsistency)
	assert.Equal(t, int64(3), got)
}

// Ninguna secuencia de operaciones válidas deja el stock negativo.
func TestSecuencia_NuncaNegativo(t *testing.T) {
	qty := int64(10)
	ops := []struct {
		kind string
		n    int64
	}{
		{"d", 4}, {"d", 7}, {"r", 3}, {"d", 9}, {"d", 1}, {"rv", 2}, {"d", 50}, {"rr", 100},
	}
	for _, op := range ops {
		var next int64
		var err error
		switch op.kind {
		case "d":
			next, err = inventory.Dispense(qty, op.n)
		case "r":
			next, err = inventory.Receive(qty, op.n)
		case "rv":
			next, err = inventory.Reverse(qty, op.n, inventory.DirectionDispense)
		case "rr":
			next, err = inventory.Reverse(qty, op.n, inventory.DirectionReceive)
		}
		if err == nil {
			qty = next
		}
		assert.GreaterOrEqual(t, qty, int64(0))
	}
}
