package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
)

// stores repositorios fuera de transacción más el TxRunner del driver elegido.
type stores struct {
	tx         inventory.TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	orders     repository.OrderRepository
	usages     repository.UsageRepository
	alerts     repository.AlertRepository
	movements  repository.StockMovementRepository
	prices     repository.PriceHistoryRepository
	users      repository.UserRepository
	close      func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		st := memory.NewStore()
		return &stores{
			tx:         st,
			products:   st.Products(),
			categories: st.Categories(),
			suppliers:  st.Suppliers(),
			orders:     st.Orders(),
			usages:     st.Usages(),
			alerts:     st.Alerts(),
			movements:  st.Movements(),
			prices:     st.Prices(),
			users:      st.Users(),
			close:      func() {},
		}, nil
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &stores{
			tx:         postgres.NewTxRunner(pool),
			products:   postgres.NewProductRepository(pool),
			categories: postgres.NewCategoryRepository(pool),
			suppliers:  postgres.NewSupplierRepository(pool),
			orders:     postgres.NewOrderRepository(pool),
			usages:     postgres.NewUsageRepository(pool),
			alerts:     postgres.NewAlertRepository(pool),
			movements:  postgres.NewStockMovementRepository(pool),
			prices:     postgres.NewPriceHistoryRepository(pool),
			users:      postgres.NewUserRepository(pool),
			close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
}
