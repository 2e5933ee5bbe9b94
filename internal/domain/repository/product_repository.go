package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos. Los campos vacíos no filtran.
type ProductFilter struct {
	CategoryID    string
	Search        string // nombre, descripción o SKU
	LowStock      bool   // quantity <= reorder_level
	OutOfStock    bool   // quantity = 0
	ExpiresBefore *time.Time // expiry_date <= ExpiresBefore
	ExpiresAfter  *time.Time // expiry_date > ExpiresAfter
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update actualiza datos de catálogo y Value. No modifica Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste Quantity y Value (solo lo usa el libro de stock).
	UpdateStock(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	// Delete devuelve domain.ErrConflict si el producto está referenciado por líneas.
	Delete(ctx context.Context, id string) error
}
