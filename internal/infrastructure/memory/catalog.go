package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// CategoryRepo implementa repository.CategoryRepository en memoria.
type CategoryRepo struct{ a access }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.a.do(func(st *state) error {
		if err := checkCategory(st, c); err != nil {
			return err
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.a.do(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.categories[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkCategory(st, c); err != nil {
			return err
		}
		upd := *c
		upd.CreatedAt = cur.CreatedAt
		st.categories[c.ID] = upd
		return nil
	})
}

func checkCategory(st *state, c *entity.Category) error {
	for id, other := range st.categories {
		if id != c.ID && strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	if c.ParentID != "" {
		if _, ok := st.categories[c.ParentID]; !ok {
			return domain.ErrConflict
		}
	}
	return nil
}

func (r *CategoryRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.a.do(func(st *state) error {
		search = strings.ToLower(strings.TrimSpace(search))
		var items []entity.Category
		for _, c := range st.categories {
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
				continue
			}
			items = append(items, c)
		}
		sortedBy(items, func(a, b entity.Category) bool { return a.Name < b.Name })
		for _, c := range page(items, limit, offset) {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.products {
			if p.CategoryID == id {
				return domain.ErrConflict
			}
		}
		delete(st.categories, id)
		for cid, c := range st.categories {
			if c.ParentID == id {
				c.ParentID = ""
				st.categories[cid] = c
			}
		}
		return nil
	})
}

// SupplierRepo implementa repository.SupplierRepository en memoria.
type SupplierRepo struct{ a access }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.a.do(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.suppliers[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		upd := *s
		upd.CreatedAt = cur.CreatedAt
		st.suppliers[s.ID] = upd
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.a.do(func(st *state) error {
		search = strings.ToLower(strings.TrimSpace(search))
		var items []entity.Supplier
		for _, s := range st.suppliers {
			if search != "" &&
				!strings.Contains(strings.ToLower(s.Name), search) &&
				!strings.Contains(strings.ToLower(s.Email), search) {
				continue
			}
			items = append(items, s)
		}
		sortedBy(items, func(a, b entity.Supplier) bool { return a.Name < b.Name })
		for _, s := range page(items, limit, offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.orders {
			if o.SupplierID == id {
				return domain.ErrConflict
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}
