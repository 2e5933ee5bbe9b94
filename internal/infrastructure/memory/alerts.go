package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// AlertRepo implementa repository.AlertRepository en memoria.
type AlertRepo struct{ a access }

var _ repository.AlertRepository = (*AlertRepo)(nil)

func (r *AlertRepo) Create(_ context.Context, al *entity.Alert) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.alerts[al.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.products[al.ProductID]; !ok {
			return domain.ErrConflict
		}
		if !al.IsRead {
			for _, other := range st.alerts {
				if !other.IsRead && other.ProductID == al.ProductID && other.Type == al.Type {
					return domain.ErrDuplicate
				}
			}
		}
		st.alerts[al.ID] = *al
		return nil
	})
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	var out *entity.Alert
	err := r.a.do(func(st *state) error {
		if al, ok := st.alerts[id]; ok {
			out = &al
		}
		return nil
	})
	return out, err
}

func (r *AlertRepo) FindOpen(_ context.Context, productID, alertType string) (*entity.Alert, error) {
	var out *entity.Alert
	err := r.a.do(func(st *state) error {
		for _, al := range st.alerts {
			if !al.IsRead && al.ProductID == productID && al.Type == alertType {
				al := al
				out = &al
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *AlertRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	return r.a.do(func(st *state) error {
		al, ok := st.alerts[id]
		if !ok {
			return domain.ErrNotFound
		}
		if !al.IsRead {
			al.IsRead = true
			al.ReadAt = &at
			st.alerts[id] = al
		}
		return nil
	})
}

func (r *AlertRepo) MarkAllRead(_ context.Context, alertType string, at time.Time) (int64, error) {
	var n int64
	err := r.a.do(func(st *state) error {
		for id, al := range st.alerts {
			if al.IsRead || (alertType != "" && al.Type != alertType) {
				continue
			}
			al.IsRead = true
			al.ReadAt = &at
			st.alerts[id] = al
			n++
		}
		return nil
	})
	return n, err
}

func (r *AlertRepo) List(_ context.Context, f repository.AlertFilter, limit, offset int) ([]*entity.Alert, error) {
	var out []*entity.Alert
	err := r.a.do(func(st *state) error {
		var items []entity.Alert
		for _, al := range st.alerts {
			if f.Type != "" && al.Type != f.Type {
				continue
			}
			if f.ProductID != "" && al.ProductID != f.ProductID {
				continue
			}
			if f.Unread != nil && al.IsRead == *f.Unread {
				continue
			}
			items = append(items, al)
		}
		sortedBy(items, func(a, b entity.Alert) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		for _, al := range page(items, limit, offset) {
			al := al
			out = append(out, &al)
		}
		return nil
	})
	return out, err
}
