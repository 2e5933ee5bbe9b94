package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []inventory.Notice
}

func (r *recordingNotifier) Notify(n inventory.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

type fixture struct {
	store    *memory.Store
	notifier *recordingNotifier
	alerts   *inventory.AlertEngine
	orders   *inventory.OrderUseCase
	usages   *inventory.UsageUseCase
}

func newFixture(t *testing.T, policy inventory.CreditPolicy) *fixture {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	ledger := inventory.NewStockLedger(log)
	valuation := inventory.NewValuation()
	alerts := inventory.NewAlertEngine(store.Products(), store.Alerts(), notifier, log)
	return &fixture{
		store:    store,
		notifier: notifier,
		alerts:   alerts,
		orders: inventory.NewOrderUseCase(store, ledger, valuation, alerts,
			store.Orders(), store.Suppliers(), store.Products(), nil, policy, log),
		usages: inventory.NewUsageUseCase(store, ledger, valuation, alerts, store.Usages(), log),
	}
}

func (f *fixture) product(t *testing.T, id string, qty, reorder int64, price string) {
	t.Helper()
	p := decimal.RequireFromString(price)
	now := time.Now()
	require.NoError(t, f.store.Products().Create(context.Background(), &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		Price:        p,
		Quantity:     qty,
		ReorderLevel: reorder,
		Value:        p.Mul(decimal.NewFromInt(qty)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func (f *fixture) supplier(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.store.Suppliers().Create(context.Background(), &entity.Supplier{
		ID:        id,
		Name:      "Proveedor " + id,
		CreatedAt: time.Now(),
	}))
}

func (f *fixture) quantity(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

// lockRecorder envuelve el Store y anota el orden de GetForUpdate sobre productos.
type lockRecorder struct {
	*memory.Store
	mu  sync.Mutex
	ids []string
}

func (r *lockRecorder) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.Store.Run(ctx, func(repos repository.TxRepos) error {
		repos.Products = recordingProducts{ProductRepository: repos.Products, rec: r}
		return fn(repos)
	})
}

func (r *lockRecorder) locked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

type recordingProducts struct {
	repository.ProductRepository
	rec *lockRecorder
}

func (p recordingProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p.rec.mu.Lock()
	p.rec.ids = append(p.rec.ids, id)
	p.rec.mu.Unlock()
	return p.ProductRepository.GetForUpdate(ctx, id)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

var emptyOrderFilter = repository.OrderFilter{}
