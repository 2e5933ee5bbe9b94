package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UsageFilter criterios de listado de usos. From/To acotan Date (inclusive).
type UsageFilter struct {
	UsageType string
	From      *time.Time
	To        *time.Time
}

// UsageRepository define el puerto de persistencia para usos (dispensaciones/ventas) y sus líneas.
type UsageRepository interface {
	Create(ctx context.Context, usage *entity.Usage) error
	GetByID(ctx context.Context, id string) (*entity.Usage, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Usage, error)
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	List(ctx context.Context, filter UsageFilter, limit, offset int) ([]*entity.Usage, error)
	// Delete elimina el uso; sus líneas deben haberse revertido y eliminado antes.
	Delete(ctx context.Context, id string) error

	CreateLine(ctx context.Context, line *entity.UsageLine) error
	GetLine(ctx context.Context, id string) (*entity.UsageLine, error)
	ListLines(ctx context.Context, usageID string) ([]*entity.UsageLine, error)
	UpdateLine(ctx context.Context, line *entity.UsageLine) error
	DeleteLine(ctx context.Context, id string) error
}
