package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UsageRepo implementa repository.UsageRepository en memoria.
type UsageRepo struct{ a access }

var _ repository.UsageRepository = (*UsageRepo)(nil)

func (r *UsageRepo) Create(_ context.Context, u *entity.Usage) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.usages[u.ID]; ok {
			return domain.ErrDuplicate
		}
		st.usages[u.ID] = *u
		return nil
	})
}

func (r *UsageRepo) GetByID(_ context.Context, id string) (*entity.Usage, error) {
	var out *entity.Usage
	err := r.a.do(func(st *state) error {
		if u, ok := st.usages[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UsageRepo) GetForUpdate(ctx context.Context, id string) (*entity.Usage, error) {
	return r.GetByID(ctx, id)
}

func (r *UsageRepo) UpdateTotal(_ context.Context, id string, total decimal.Decimal) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.usages[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.TotalValue = total
		st.usages[id] = cur
		return nil
	})
}

func (r *UsageRepo) List(_ context.Context, f repository.UsageFilter, limit, offset int) ([]*entity.Usage, error) {
	var out []*entity.Usage
	err := r.a.do(func(st *state) error {
		var items []entity.Usage
		for _, u := range st.usages {
			if f.UsageType != "" && u.UsageType != f.UsageType {
				continue
			}
			if f.From != nil && u.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && u.Date.After(*f.To) {
				continue
			}
			items = append(items, u)
		}
		sortedBy(items, func(a, b entity.Usage) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.ID < b.ID
		})
		for _, u := range page(items, limit, offset) {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

func (r *UsageRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.usages[id]; !ok {
			return domain.ErrNotFound
		}
		for _, l := range st.usageLines {
			if l.UsageID == id {
				return domain.ErrConflict
			}
		}
		delete(st.usages, id)
		return nil
	})
}

func (r *UsageRepo) CreateLine(_ context.Context, l *entity.UsageLine) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.usageLines[l.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.usages[l.UsageID]; !ok {
			return domain.ErrConflict
		}
		if _, ok := st.products[l.ProductID]; !ok {
			return domain.ErrConflict
		}
		st.usageLines[l.ID] = *l
		return nil
	})
}

func (r *UsageRepo) GetLine(_ context.Context, id string) (*entity.UsageLine, error) {
	var out *entity.UsageLine
	err := r.a.do(func(st *state) error {
		if l, ok := st.usageLines[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *UsageRepo) ListLines(_ context.Context, usageID string) ([]*entity.UsageLine, error) {
	var out []*entity.UsageLine
	err := r.a.do(func(st *state) error {
		var items []entity.UsageLine
		for _, l := range st.usageLines {
			if l.UsageID == usageID {
				items = append(items, l)
			}
		}
		sortedBy(items, func(a, b entity.UsageLine) bool {
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

func (r *UsageRepo) UpdateLine(_ context.Context, l *entity.UsageLine) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.usageLines[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Quantity = l.Quantity
		cur.UnitPrice = l.UnitPrice
		cur.Value = l.Value
		cur.UpdatedAt = l.UpdatedAt
		st.usageLines[l.ID] = cur
		return nil
	})
}

func (r *UsageRepo) DeleteLine(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.usageLines[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.usageLines, id)
		return nil
	})
}
