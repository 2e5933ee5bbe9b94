package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// PriceHistoryRepository historial append-only de precios. Los listados van del más reciente al más antiguo.
type PriceHistoryRepository interface {
	Create(ctx context.Context, entry *entity.PriceHistory) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceHistory, error)
}
