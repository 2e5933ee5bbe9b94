package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// MovementRef identifica quién y qué originó un movimiento.
type MovementRef struct {
	Reference string // ID de la línea
	UserID    string
}

// StockLedger es el único componente que modifica Product.Quantity.
// Cada operación bloquea la fila del producto (GetForUpdate) dentro de la tx del caller,
// por lo que dos operaciones sobre el mismo producto nunca intercalan su lectura-escritura.
type StockLedger struct {
	log zerolog.Logger
	now func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(log zerolog.Logger) *StockLedger {
	return &StockLedger{log: log, now: time.Now}
}

// Receive suma qty al stock del producto.
func (l *StockLedger) Receive(ctx context.Context, repos repository.TxRepos, productID string, qty int64, ref MovementRef) (*entity.Product, error) {
	return l.apply(ctx, repos, productID, qty, entity.MovementReceive, ref, func(current int64) (int64, error) {
		return domaininv.Receive(current, qty)
	})
}

// Dispense resta qty del stock; falla con *domain.StockError si no alcanza.
func (l *StockLedger) Dispense(ctx context.Context, repos repository.TxRepos, productID string, qty int64, ref MovementRef) (*entity.Product, error) {
	return l.apply(ctx, repos, productID, qty, entity.MovementDispense, ref, func(current int64) (int64, error) {
		return domaininv.Dispense(current, qty)
	})
}

// Reverse deshace una entrada (DirectionReceive) o una salida (DirectionDispense) previa.
func (l *StockLedger) Reverse(ctx context.Context, repos repository.TxRepos, productID string, qty int64, dir domaininv.Direction, ref MovementRef) (*entity.Product, error) {
	kind := entity.MovementReverseDispense
	if dir == domaininv.DirectionReceive {
		kind = entity.MovementReverseReceive
	}
	return l.apply(ctx, repos, productID, qty, kind, ref, func(current int64) (int64, error) {
		return domaininv.Reverse(current, qty, dir)
	})
}

func (l *StockLedger) apply(
	ctx context.Context,
	repos repository.TxRepos,
	productID string,
	qty int64,
	kind string,
	ref MovementRef,
	op func(current int64) (int64, error),
) (*entity.Product, error) {
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	before := product.Quantity
	after, err := op(before)
	if err != nil {
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			stockErr.SKU = product.SKU
		}
		if errors.Is(err, domain.ErrLedgerInconsistency) {
			l.log.Error().
				Str("product_id", product.ID).
				Str("kind", kind).
				Int64("quantity", before).
				Int64("reverse", qty).
				Str("reference", ref.Reference).
				Msg("reversión dejaría stock negativo")
		}
		return nil, err
	}

	now := l.now()
	product.Quantity = after
	product.Value = domaininv.LineValue(after, product.Price)
	product.UpdatedAt = now
	if err := repos.Products.UpdateStock(ctx, product); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      product.ID,
		Kind:           kind,
		Quantity:       qty,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reference:      ref.Reference,
		CreatedAt:      now,
		CreatedBy:      ref.UserID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return product, nil
}
