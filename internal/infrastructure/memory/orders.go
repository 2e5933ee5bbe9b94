package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// OrderRepo implementa repository.OrderRepository en memoria.
type OrderRepo struct{ a access }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			return domain.ErrConflict
		}
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.a.do(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = o.Status
		cur.ReceivedAt = o.ReceivedAt
		cur.UpdatedAt = o.UpdatedAt
		st.orders[o.ID] = cur
		return nil
	})
}

func (r *OrderRepo) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.TotalValue = total
		st.orders[id] = cur
		return nil
	})
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.a.do(func(st *state) error {
		var items []entity.Order
		for _, o := range st.orders {
			if f.SupplierID != "" && o.SupplierID != f.SupplierID {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.Since != nil && o.OrderDate.Before(*f.Since) {
				continue
			}
			items = append(items, o)
		}
		sortedBy(items, func(a, b entity.Order) bool {
			if !a.OrderDate.Equal(b.OrderDate) {
				return a.OrderDate.After(b.OrderDate)
			}
			return a.ID < b.ID
		})
		for _, o := range page(items, limit, offset) {
			o := o
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) CreateLine(_ context.Context, l *entity.OrderLine) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.orderLines[l.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.orders[l.OrderID]; !ok {
			return domain.ErrConflict
		}
		if _, ok := st.products[l.ProductID]; !ok {
			return domain.ErrConflict
		}
		st.orderLines[l.ID] = *l
		return nil
	})
}

func (r *OrderRepo) GetLine(_ context.Context, id string) (*entity.OrderLine, error) {
	var out *entity.OrderLine
	err := r.a.do(func(st *state) error {
		if l, ok := st.orderLines[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) ListLines(_ context.Context, orderID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	err := r.a.do(func(st *state) error {
		var items []entity.OrderLine
		for _, l := range st.orderLines {
			if l.OrderID == orderID {
				items = append(items, l)
			}
		}
		sortedBy(items, func(a, b entity.OrderLine) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		for _, l := range items {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) UpdateLine(_ context.Context, l *entity.OrderLine) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.orderLines[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Quantity = l.Quantity
		cur.UnitPrice = l.UnitPrice
		cur.Value = l.Value
		cur.StockApplied = l.StockApplied
		cur.UpdatedAt = l.UpdatedAt
		st.orderLines[l.ID] = cur
		return nil
	})
}

func (r *OrderRepo) DeleteLine(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.orderLines[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.orderLines, id)
		return nil
	})
}
