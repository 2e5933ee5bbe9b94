package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Valuation recalcula el total de una orden o de un uso a partir de sus líneas actuales.
// Bloquea la fila del agregado para que dos recálculos concurrentes no pierdan una actualización.
type Valuation struct{}

// NewValuation construye el servicio de valorización.
func NewValuation() *Valuation { return &Valuation{} }

// RecomputeOrder recalcula y persiste Order.TotalValue.
func (v *Valuation) RecomputeOrder(ctx context.Context, repos repository.TxRepos, orderID string) (decimal.Decimal, error) {
	order, err := repos.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	if order == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	lines, err := repos.Orders.ListLines(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	values := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		values = append(values, l.Value)
	}
	total := domaininv.AggregateTotal(values)
	if err := repos.Orders.UpdateTotal(ctx, orderID, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// RecomputeUsage recalcula y persiste Usage.TotalValue.
func (v *Valuation) RecomputeUsage(ctx context.Context, repos repository.TxRepos, usageID string) (decimal.Decimal, error) {
	usage, err := repos.Usages.GetForUpdate(ctx, usageID)
	if err != nil {
		return decimal.Zero, err
	}
	if usage == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	lines, err := repos.Usages.ListLines(ctx, usageID)
	if err != nil {
		return decimal.Zero, err
	}
	values := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		values = append(values, l.Value)
	}
	total := domaininv.AggregateTotal(values)
	if err := repos.Usages.UpdateTotal(ctx, usageID, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
