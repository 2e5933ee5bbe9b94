package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// StockMovementRepo implementa repository.StockMovementRepository en memoria.
type StockMovementRepo struct{ a access }

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.ErrConflict
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

// ListByProduct devuelve los movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.do(func(st *state) error {
		var items []entity.StockMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].ProductID == productID {
				items = append(items, st.movements[i])
			}
		}
		for _, m := range page(items, limit, offset) {
			m := m
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

// PriceHistoryRepo implementa repository.PriceHistoryRepository en memoria.
type PriceHistoryRepo struct{ a access }

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

func (r *PriceHistoryRepo) Create(_ context.Context, h *entity.PriceHistory) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.products[h.ProductID]; !ok {
			return domain.ErrConflict
		}
		st.prices = append(st.prices, *h)
		return nil
	})
}

func (r *PriceHistoryRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	var out []*entity.PriceHistory
	err := r.a.do(func(st *state) error {
		var items []entity.PriceHistory
		for i := len(st.prices) - 1; i >= 0; i-- {
			if st.prices[i].ProductID == productID {
				items = append(items, st.prices[i])
			}
		}
		for _, h := range page(items, limit, offset) {
			h := h
			out = append(out, &h)
		}
		return nil
	})
	return out, err
}

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct{ a access }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.users {
			if other.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
