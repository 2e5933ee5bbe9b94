// Package memory implementa los repositorios y el TxRunner en memoria.
// Una transacción trabaja sobre una copia del estado y la publica al confirmar;
// las transacciones se ejecutan de a una.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type state struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	orders     map[string]entity.Order
	orderLines map[string]entity.OrderLine
	usages     map[string]entity.Usage
	usageLines map[string]entity.UsageLine
	alerts     map[string]entity.Alert
	users      map[string]entity.User
	prices     []entity.PriceHistory
	movements  []entity.StockMovement
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		suppliers:  map[string]entity.Supplier{},
		orders:     map[string]entity.Order{},
		orderLines: map[string]entity.OrderLine{},
		usages:     map[string]entity.Usage{},
		usageLines: map[string]entity.UsageLine{},
		alerts:     map[string]entity.Alert{},
		users:      map[string]entity.User{},
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		products:   cloneMap(s.products),
		categories: cloneMap(s.categories),
		suppliers:  cloneMap(s.suppliers),
		orders:     cloneMap(s.orders),
		orderLines: cloneMap(s.orderLines),
		usages:     cloneMap(s.usages),
		usageLines: cloneMap(s.usageLines),
		alerts:     cloneMap(s.alerts),
		users:      cloneMap(s.users),
		prices:     append([]entity.PriceHistory(nil), s.prices...),
		movements:  append([]entity.StockMovement(nil), s.movements...),
	}
}

// Store base de datos en memoria. Útil para pruebas y para STORE_DRIVER=memory.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// access abstrae si el repositorio opera sobre el estado publicado (con lock) o sobre la copia de una tx.
type access interface {
	do(fn func(st *state) error) error
}

type storeAccess struct{ s *Store }

func (a storeAccess) do(fn func(st *state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.data)
}

// txAccess no toma el lock: Run ya lo tiene durante toda la transacción.
type txAccess struct{ st *state }

func (a txAccess) do(fn func(st *state) error) error { return fn(a.st) }

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del estado; si fn devuelve nil la copia reemplaza al estado.
// Los repositorios del Store (fuera de fn) no deben usarse dentro de fn.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	a := txAccess{st: tx}
	repos := repository.TxRepos{
		Products:  &ProductRepo{a: a},
		Orders:    &OrderRepo{a: a},
		Usages:    &UsageRepo{a: a},
		Movements: &StockMovementRepo{a: a},
		Prices:    &PriceHistoryRepo{a: a},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// Products repositorio de productos sobre el estado publicado.
func (s *Store) Products() *ProductRepo { return &ProductRepo{a: storeAccess{s}} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{a: storeAccess{s}} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{a: storeAccess{s}} }

// Orders repositorio de órdenes.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{a: storeAccess{s}} }

// Usages repositorio de usos.
func (s *Store) Usages() *UsageRepo { return &UsageRepo{a: storeAccess{s}} }

// Alerts repositorio de alertas.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{a: storeAccess{s}} }

// Movements repositorio de movimientos de stock.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{a: storeAccess{s}} }

// Prices repositorio del historial de precios.
func (s *Store) Prices() *PriceHistoryRepo { return &PriceHistoryRepo{a: storeAccess{s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{a: storeAccess{s}} }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedBy[T any](items []T, less func(a, b T) bool) []T {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	return items
}
