package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0,00"},
		{"57.48", "$57,48"},
		{"1234567.5", "$1.234.567,50"},
		{"999.999", "$1.000,00"},
		{"-1500", "-$1.500,00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestGenerateOrderPDF(t *testing.T) {
	order := &entity.Order{
		ID:         "3f1c2a9e-0000-4000-8000-000000000001",
		Status:     entity.OrderStatusPending,
		OrderDate:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalValue: decimal.RequireFromString("57.48"),
	}
	supplier := &entity.Supplier{ID: "s1", Name: "Droguería Central", Email: "ventas@central.co"}
	lines := []inventory.OrderLineForPDF{
		{Line: &entity.OrderLine{Quantity: 3, UnitPrice: decimal.RequireFromString("12.50"), Value: decimal.RequireFromString("37.50")}, SKU: "AMX-500", ProductName: "Amoxicilina 500mg"},
		{Line: &entity.OrderLine{Quantity: 2, UnitPrice: decimal.RequireFromString("9.99"), Value: decimal.RequireFromString("19.98")}, SKU: "GAS-10", ProductName: "Gasas"},
	}

	out, err := NewMarotoPDFGenerator("stock-ledger").GenerateOrderPDF(context.Background(), order, supplier, lines)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateOrderPDF_RequiresSupplier(t *testing.T) {
	_, err := NewMarotoPDFGenerator("x").GenerateOrderPDF(context.Background(), &entity.Order{ID: "o"}, nil, nil)
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f1c2a9e", shortID("3f1c2a9e-0000-4000-8000-000000000001"))
	assert.Equal(t, "abc", shortID("abc"))
}
