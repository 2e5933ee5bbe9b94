package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) dispense(t *testing.T, productID string, qty int64) {
	t.Helper()
	_, err := f.usages.CreateUsage(context.Background(), "u1", dto.CreateUsageRequest{
		Lines: []dto.UsageLineRequest{{ProductID: productID, Quantity: qty}},
	})
	require.NoError(t, err)
}

func (f *fixture) openAlerts(t *testing.T, productID string) []dto.AlertResponse {
	t.Helper()
	unread := true
	list, err := f.alerts.List(context.Background(), repository.AlertFilter{ProductID: productID, Unread: &unread}, dto.PageRequest{})
	require.NoError(t, err)
	return list.Items
}

func TestLowStock_EscenarioUmbralDiez(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.CreditImmediate)
	f.product(t, "p1", 20, 10, "1.00")

	f.dispense(t, "p1", 15)
	assert.Equal(t, int64(5), f.quantity(t, "p1"))
	open := f.openAlerts(t, "p1")
	require.Len(t, open, 1)
	assert.Equal(t, entity.AlertTypeLowStock, open[0].Type)
	assert.Equal(t, 1, f.notifier.count())

	f.dispense(t, "p1", 1)
	assert.Equal(t, int64(4), f.quantity(t, "p1"))
	assert.Len(t, f.openAlerts(t, "p1"), 1, "sigue habiendo una sola alerta abierta")
	assert.Equal(t, 1, f.notifier.count())

	read, err := f.alerts.MarkRead(ctx, open[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)
	assert.Empty(t, f.openAlerts(t, "p1"))

	f.dispense(t, "p1", 1)
	assert.Equal(t, int64(3), f.quantity(t, "p1"))
	reopened := f.openAlerts(t, "p1")
	require.Len(t, reopened, 1)
	assert.NotEqual(t, open[0].ID, reopened[0].ID)
	assert.Equal(t, 2, f.notifier.count())
}

func TestLowStock_ReponerNoCierraLaAlerta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.CreditImmediate)
	f.supplier(t, "s1")
	f.product(t, "p1", 3, 5, "1.00")

	_, err := f.alerts.EvaluateLowStock(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, f.openAlerts(t, "p1"), 1)

	_, err = f.orders.CreateOrder(ctx, "u1", dto.CreateOrderRequest{
		SupplierID: "s1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", Quantity: 50, UnitPrice: dec("1.00")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(53), f.quantity(t, "p1"))
	assert.Len(t, f.openAlerts(t, "p1"), 1)
}

func TestEvaluateLowStock_Idempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.CreditImmediate)
	f.product(t, "p1", 0, 0, "1.00")
	f.product(t, "p2", 9, 1, "1.00")

	created, err := f.alerts.EvaluateLowStock(ctx, "p1", "p1", "p2", "missing")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "p1", created[0].ProductID)

	created, err = f.alerts.EvaluateLowStock(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestScanExpired_AbreUnaAlertaPorProducto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.CreditImmediate)
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)
	for id, exp := range map[string]*time.Time{"old": &past, "new": &future, "none": nil} {
		require.NoError(t, f.store.Products().Create(ctx, &entity.Product{
			ID: id, SKU: "SKU-" + id, Name: id, Quantity: 100, ExpiryDate: exp,
		}))
	}

	created, err := f.alerts.ScanExpired(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "old", created[0].ProductID)
	assert.Equal(t, entity.AlertTypeExpiry, created[0].Type)

	created, err = f.alerts.ScanExpired(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestMarkAllRead_FiltraPorTipo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.CreditImmediate)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", ExpiryDate: &past}))
	_, err := f.alerts.EvaluateLowStock(ctx, "p1")
	require.NoError(t, err)
	_, err = f.alerts.ScanExpired(ctx)
	require.NoError(t, err)

	n, err := f.alerts.MarkAllRead(ctx, "low_stock")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	open := f.openAlerts(t, "p1")
	require.Len(t, open, 1)
	assert.Equal(t, entity.AlertTypeExpiry, open[0].Type)

	_, err = f.alerts.MarkAllRead(ctx, "BOGUS")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, err = f.alerts.MarkAllRead(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMarkRead_Inexistente(t *testing.T) {
	f := newFixture(t, inventory.CreditImmediate)
	_, err := f.alerts.MarkRead(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingAlerts simula una caída del almacenamiento de alertas.
type failingAlerts struct {
	repository.AlertRepository
}

func (failingAlerts) FindOpen(context.Context, string, string) (*entity.Alert, error) {
	return nil, errors.New("alerts down")
}

func TestFalloDeAlertas_NoDeshaceElMovimiento(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", Quantity: 5, ReorderLevel: 10}))

	alerts := inventory.NewAlertEngine(store.Products(), failingAlerts{store.Alerts()}, nil, log)
	usages := inventory.NewUsageUseCase(store, inventory.NewStockLedger(log), inventory.NewValuation(), alerts, store.Usages(), log)

	usage, err := usages.CreateUsage(ctx, "u1", dto.CreateUsageRequest{
		Lines: []dto.UsageLineRequest{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, usage.Lines, 1)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Quantity)
}

func TestStockMovements_RegistraCadaOperacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.CreditImmediate)
	f.product(t, "p1", 10, 0, "1.00")
	usage, err := f.usages.CreateUsage(ctx, "u1", dto.CreateUsageRequest{
		Lines: []dto.UsageLineRequest{{ProductID: "p1", Quantity: 4}},
	})
	require.NoError(t, err)
	require.NoError(t, f.usages.DeleteUsageLine(ctx, "u1", usage.Lines[0].ID))

	movs, err := f.store.Movements().ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementReverseDispense, movs[0].Kind)
	assert.Equal(t, int64(6), movs[0].QuantityBefore)
	assert.Equal(t, int64(10), movs[0].QuantityAfter)
	assert.Equal(t, entity.MovementDispense, movs[1].Kind)
	assert.Equal(t, usage.Lines[0].ID, movs[1].Reference)
}

func TestParseCreditPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    inventory.CreditPolicy
		wantErr bool
	}{
		{"", inventory.CreditImmediate, false},
		{"immediate", inventory.CreditImmediate, false},
		{" ON_RECEIPT ", inventory.CreditOnReceipt, false},
		{"later", "", true},
	}
	for _, tt := range tests {
		got, err := inventory.ParseCreditPolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
