package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderFilter criterios de listado de órdenes.
type OrderFilter struct {
	SupplierID string
	Status     string
	Since      *time.Time
}

// OrderRepository define el puerto de persistencia para órdenes y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la orden (serializa cambios de líneas y del total).
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error)

	CreateLine(ctx context.Context, line *entity.OrderLine) error
	GetLine(ctx context.Context, id string) (*entity.OrderLine, error)
	ListLines(ctx context.Context, orderID string) ([]*entity.OrderLine, error)
	UpdateLine(ctx context.Context, line *entity.OrderLine) error
	DeleteLine(ctx context.Context, id string) error
}
