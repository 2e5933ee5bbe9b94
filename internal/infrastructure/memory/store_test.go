package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *memory.Store, id, sku string, qty int64) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID:           id,
		SKU:          sku,
		Name:         "Producto " + sku,
		Price:        decimal.RequireFromString("2.50"),
		Quantity:     qty,
		ReorderLevel: 5,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))
}

// ─── Transacciones ────────────────────────────────────────────────────────────

func TestRun_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10)

	boom := errors.New("boom")
	err := s.Run(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, "p1")
		require.NoError(t, err)
		p.Quantity = 0
		require.NoError(t, repos.Products.UpdateStock(ctx, p))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Quantity)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10)

	err := s.Run(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, "p1")
		if err != nil {
			return err
		}
		p.Quantity = 3
		if err := repos.Products.UpdateStock(ctx, p); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Kind: entity.MovementDispense, Quantity: 7})
	})
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, int64(3), p.Quantity)
	movs, err := s.Movements().ListByProduct(ctx, "p1", 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10)

	p, _ := s.Products().GetByID(ctx, "p1")
	p.Quantity = 99

	again, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, int64(10), again.Quantity)
}

// ─── Restricciones ────────────────────────────────────────────────────────────

func TestProduct_SKUDuplicado(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 1)
	err := s.Products().Create(context.Background(), &entity.Product{ID: "p2", SKU: "sku-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_UpdateNoCambiaCantidad(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10)

	p, _ := s.Products().GetByID(ctx, "p1")
	p.Quantity = 0
	p.Name = "Renombrado"
	require.NoError(t, s.Products().Update(ctx, p))

	got, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, "Renombrado", got.Name)
	assert.Equal(t, int64(10), got.Quantity)
}

func TestProduct_DeleteReferenciadoEsConflicto(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 10)
	require.NoError(t, s.Usages().Create(ctx, &entity.Usage{ID: "u1", UsageType: entity.UsageTypeVet}))
	require.NoError(t, s.Usages().CreateLine(ctx, &entity.UsageLine{ID: "l1", UsageID: "u1", ProductID: "p1", Quantity: 1}))

	assert.ErrorIs(t, s.Products().Delete(ctx, "p1"), domain.ErrConflict)
}

func TestSupplier_DeleteConOrdenesEsConflicto(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Proveedor"}))
	require.NoError(t, s.Orders().Create(ctx, &entity.Order{ID: "o1", SupplierID: "s1", Status: entity.OrderStatusPending}))

	assert.ErrorIs(t, s.Suppliers().Delete(ctx, "s1"), domain.ErrConflict)
}

func TestCategory_DeleteDejaHijasComoRaiz(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "c1", Name: "Medicamentos"}))
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "c2", Name: "Antibióticos", ParentID: "c1"}))

	require.NoError(t, s.Categories().Delete(ctx, "c1"))
	child, err := s.Categories().GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, child.ParentID)
}

// ─── Alertas ──────────────────────────────────────────────────────────────────

func TestAlert_UnaAbiertaPorProductoYTipo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 1)
	alerts := s.Alerts()

	require.NoError(t, alerts.Create(ctx, &entity.Alert{ID: "a1", ProductID: "p1", Type: entity.AlertTypeLowStock}))
	assert.ErrorIs(t, alerts.Create(ctx, &entity.Alert{ID: "a2", ProductID: "p1", Type: entity.AlertTypeLowStock}), domain.ErrDuplicate)
	require.NoError(t, alerts.Create(ctx, &entity.Alert{ID: "a3", ProductID: "p1", Type: entity.AlertTypeExpiry}))

	require.NoError(t, alerts.MarkRead(ctx, "a1", time.Now()))
	require.NoError(t, alerts.Create(ctx, &entity.Alert{ID: "a4", ProductID: "p1", Type: entity.AlertTypeLowStock}))
}

func TestAlert_MarkAllReadPorTipo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "p1", "SKU-1", 1)
	seedProduct(t, s, "p2", "SKU-2", 1)
	alerts := s.Alerts()
	require.NoError(t, alerts.Create(ctx, &entity.Alert{ID: "a1", ProductID: "p1", Type: entity.AlertTypeLowStock}))
	require.NoError(t, alerts.Create(ctx, &entity.Alert{ID: "a2", ProductID: "p2", Type: entity.AlertTypeLowStock}))
	require.NoError(t, alerts.Create(ctx, &entity.Alert{ID: "a3", ProductID: "p1", Type: entity.AlertTypeExpiry}))

	n, err := alerts.MarkAllRead(ctx, entity.AlertTypeLowStock, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	unread := true
	open, err := alerts.List(ctx, repository.AlertFilter{Unread: &unread}, 10, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "a3", open[0].ID)
}
