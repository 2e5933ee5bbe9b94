package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct{ a access }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if strings.EqualFold(other.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		if p.CategoryID != "" {
			if _, ok := st.categories[p.CategoryID]; !ok {
				return domain.ErrConflict
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.do(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, other := range st.products {
			if id != p.ID && strings.EqualFold(other.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		if p.CategoryID != "" {
			if _, ok := st.categories[p.CategoryID]; !ok {
				return domain.ErrConflict
			}
		}
		upd := *p
		upd.Quantity = cur.Quantity
		upd.CreatedAt = cur.CreatedAt
		st.products[p.ID] = upd
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Quantity = p.Quantity
		cur.Value = p.Value
		cur.UpdatedAt = p.UpdatedAt
		st.products[p.ID] = cur
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.do(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		var items []entity.Product
		for _, p := range st.products {
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Description), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) {
				continue
			}
			if f.LowStock && p.Quantity > p.ReorderLevel {
				continue
			}
			if f.OutOfStock && p.Quantity != 0 {
				continue
			}
			if f.ExpiresBefore != nil && (p.ExpiryDate == nil || p.ExpiryDate.After(*f.ExpiresBefore)) {
				continue
			}
			if f.ExpiresAfter != nil && (p.ExpiryDate == nil || !p.ExpiryDate.After(*f.ExpiresAfter)) {
				continue
			}
			items = append(items, p)
		}
		sortedBy(items, func(a, b entity.Product) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		for _, p := range page(items, limit, offset) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, l := range st.orderLines {
			if l.ProductID == id {
				return domain.ErrConflict
			}
		}
		for _, l := range st.usageLines {
			if l.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(st.products, id)
		for aid, a := range st.alerts {
			if a.ProductID == id {
				delete(st.alerts, aid)
			}
		}
		st.prices = filterSlice(st.prices, func(h entity.PriceHistory) bool { return h.ProductID != id })
		st.movements = filterSlice(st.movements, func(m entity.StockMovement) bool { return m.ProductID != id })
		return nil
	})
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
