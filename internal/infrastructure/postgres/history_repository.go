package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.PriceHistoryRepository  = (*PriceHistoryRepo)(nil)
)

// StockMovementRepo libro append-only de movimientos de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, kind, quantity, quantity_before, quantity_after,
			reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.Kind, m.Quantity, m.QuantityBefore, m.QuantityAfter,
		m.Reference, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return writeError("insert stock movement", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, kind, quantity, quantity_before, quantity_after, reference, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
			&m.Reference, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// PriceHistoryRepo historial append-only de precios.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

func (r *PriceHistoryRepo) Create(ctx context.Context, h *entity.PriceHistory) error {
	query := `
		INSERT INTO price_history (id, product_id, old_purchase_price, new_purchase_price, old_price, new_price,
			changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, h.ID, h.ProductID, h.OldPurchasePrice, h.NewPurchasePrice, h.OldPrice, h.NewPrice,
		h.ChangedBy, h.ChangedAt)
	if err != nil {
		return writeError("insert price history", err)
	}
	return nil
}

func (r *PriceHistoryRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	query := `
		SELECT id, product_id, old_purchase_price, new_purchase_price, old_price, new_price, changed_by, changed_at
		FROM price_history WHERE product_id = $1
		ORDER BY changed_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.OldPurchasePrice, &h.NewPurchasePrice, &h.OldPrice, &h.NewPrice,
			&h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
