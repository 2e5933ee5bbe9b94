package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error)
	// Delete devuelve domain.ErrConflict si la categoría tiene productos; las subcategorías quedan como raíz.
	Delete(ctx context.Context, id string) error
}
