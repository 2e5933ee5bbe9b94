package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, error)
	// Delete devuelve domain.ErrConflict mientras existan órdenes del proveedor.
	Delete(ctx context.Context, id string) error
}
