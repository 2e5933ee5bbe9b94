package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// UsageUseCase registra usos de stock (aplicación veterinaria o venta).
// Cada línea descuenta stock al crearse y lo devuelve al eliminarse.
type UsageUseCase struct {
	txRunner  TxRunner
	ledger    *StockLedger
	valuation *Valuation
	alerts    *AlertEngine
	usages    repository.UsageRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewUsageUseCase construye el caso de uso.
func NewUsageUseCase(
	txRunner TxRunner,
	ledger *StockLedger,
	valuation *Valuation,
	alerts *AlertEngine,
	usages repository.UsageRepository,
	log zerolog.Logger,
) *UsageUseCase {
	return &UsageUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		valuation: valuation,
		alerts:    alerts,
		usages:    usages,
		log:       log,
		now:       time.Now,
	}
}

// CreateUsage crea un uso con líneas opcionales. Si alguna línea no tiene stock suficiente
// no se persiste nada.
func (uc *UsageUseCase) CreateUsage(ctx context.Context, userID string, in dto.CreateUsageRequest) (*dto.UsageResponse, error) {
	usageType := strings.ToUpper(strings.TrimSpace(in.UsageType))
	if usageType == "" {
		usageType = entity.UsageTypeVet
	}
	if !entity.ValidUsageType(usageType) {
		return nil, domain.Invalid("usage_type", "debe ser VET o SALE")
	}
	for _, l := range in.Lines {
		if err := validateUsageLine(l); err != nil {
			return nil, err
		}
	}
	now := uc.now()
	usage := &entity.Usage{
		ID:         uuid.New().String(),
		UsageType:  usageType,
		Notes:      strings.TrimSpace(in.Notes),
		Date:       now,
		TotalValue: decimal.Zero,
		CreatedBy:  userID,
		UpdatedAt:  now,
	}
	var touched []string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Usages.Create(ctx, usage); err != nil {
			return err
		}
		if err := lockProducts(ctx, repos, usageLineProducts(in.Lines)); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line, err := uc.addLine(ctx, repos, usage, l, userID)
			if err != nil {
				return err
			}
			touched = append(touched, line.ProductID)
		}
		_, err := uc.valuation.RecomputeUsage(ctx, repos, usage.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, touched)
	return uc.GetUsage(ctx, usage.ID)
}

// GetUsage devuelve el uso con sus líneas.
func (uc *UsageUseCase) GetUsage(ctx context.Context, id string) (*dto.UsageResponse, error) {
	usage, err := uc.usages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.usages.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUsageResponse(usage, lines)
	return &resp, nil
}

// ListUsages lista usos, opcionalmente por tipo y rango de fechas.
func (uc *UsageUseCase) ListUsages(ctx context.Context, filter repository.UsageFilter, page dto.PageRequest) (*dto.UsageListResponse, error) {
	page.DefaultPage()
	if filter.UsageType != "" {
		filter.UsageType = strings.ToUpper(filter.UsageType)
		if !entity.ValidUsageType(filter.UsageType) {
			return nil, domain.Invalid("usage_type", "debe ser VET o SALE")
		}
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("end_date", "debe ser posterior a start_date")
	}
	list, err := uc.usages.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UsageResponse, 0, len(list))
	for _, u := range list {
		items = append(items, toUsageResponse(u, nil))
	}
	return &dto.UsageListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// CreateUsageLine descuenta stock y agrega la línea al uso.
func (uc *UsageUseCase) CreateUsageLine(ctx context.Context, userID, usageID string, in dto.UsageLineRequest) (*dto.UsageLineResponse, error) {
	if err := validateUsageLine(in); err != nil {
		return nil, err
	}
	var line *entity.UsageLine
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		usage, err := repos.Usages.GetForUpdate(ctx, usageID)
		if err != nil {
			return err
		}
		if usage == nil {
			return domain.ErrNotFound
		}
		line, err = uc.addLine(ctx, repos, usage, in, userID)
		if err != nil {
			return err
		}
		_, err = uc.valuation.RecomputeUsage(ctx, repos, usageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, []string{line.ProductID})
	resp := toUsageLineResponse(line)
	return &resp, nil
}

// UpdateUsageLine cambia cantidad y/o precio; un cambio de cantidad devuelve la anterior y
// descuenta la nueva dentro de la misma transacción.
func (uc *UsageUseCase) UpdateUsageLine(ctx context.Context, userID, lineID string, in dto.UpdateLineRequest) (*dto.UsageLineResponse, error) {
	if err := validateLineUpdate(in); err != nil {
		return nil, err
	}
	var line *entity.UsageLine
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		line, err = lockUsageLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		if in.Quantity != nil && *in.Quantity != line.Quantity {
			ref := MovementRef{Reference: line.ID, UserID: userID}
			if *in.Quantity > line.Quantity {
				_, err = uc.ledger.Dispense(ctx, repos, line.ProductID, *in.Quantity-line.Quantity, ref)
			} else {
				_, err = uc.ledger.Reverse(ctx, repos, line.ProductID, line.Quantity-*in.Quantity, domaininv.DirectionDispense, ref)
			}
			if err != nil {
				return err
			}
			line.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			line.UnitPrice = *in.UnitPrice
		}
		line.Value = domaininv.LineValue(line.Quantity, line.UnitPrice)
		line.UpdatedAt = uc.now()
		if err := repos.Usages.UpdateLine(ctx, line); err != nil {
			return err
		}
		_, err = uc.valuation.RecomputeUsage(ctx, repos, line.UsageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, []string{line.ProductID})
	resp := toUsageLineResponse(line)
	return &resp, nil
}

// DeleteUsageLine devuelve el stock de la línea y la elimina.
func (uc *UsageUseCase) DeleteUsageLine(ctx context.Context, userID, lineID string) error {
	var productID string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		line, err := lockUsageLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		productID = line.ProductID
		ref := MovementRef{Reference: line.ID, UserID: userID}
		if _, err := uc.ledger.Reverse(ctx, repos, line.ProductID, line.Quantity, domaininv.DirectionDispense, ref); err != nil {
			return err
		}
		if err := repos.Usages.DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		_, err = uc.valuation.RecomputeUsage(ctx, repos, line.UsageID)
		return err
	})
	if err != nil {
		return err
	}
	uc.evaluate(ctx, []string{productID})
	return nil
}

// DeleteUsage devuelve el stock de todas las líneas y elimina el uso.
func (uc *UsageUseCase) DeleteUsage(ctx context.Context, userID, id string) error {
	var touched []string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		usage, err := repos.Usages.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if usage == nil {
			return domain.ErrNotFound
		}
		lines, err := repos.Usages.ListLines(ctx, id)
		if err != nil {
			return err
		}
		for _, line := range usageLinesByProduct(lines) {
			ref := MovementRef{Reference: line.ID, UserID: userID}
			if _, err := uc.ledger.Reverse(ctx, repos, line.ProductID, line.Quantity, domaininv.DirectionDispense, ref); err != nil {
				return err
			}
			if err := repos.Usages.DeleteLine(ctx, line.ID); err != nil {
				return err
			}
			touched = append(touched, line.ProductID)
		}
		return repos.Usages.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("usage_id", id).Int("lines", len(touched)).Msg("uso eliminado")
	uc.evaluate(ctx, touched)
	return nil
}

func (uc *UsageUseCase) addLine(ctx context.Context, repos repository.TxRepos, usage *entity.Usage, in dto.UsageLineRequest, userID string) (*entity.UsageLine, error) {
	now := uc.now()
	line := &entity.UsageLine{
		ID:        uuid.New().String(),
		UsageID:   usage.ID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Dispense bloquea el producto y valida stock antes de persistir la línea.
	product, err := uc.ledger.Dispense(ctx, repos, in.ProductID, in.Quantity, MovementRef{Reference: line.ID, UserID: userID})
	if err != nil {
		return nil, err
	}
	line.UnitPrice = product.Price
	if in.UnitPrice != nil {
		line.UnitPrice = *in.UnitPrice
	}
	if !line.UnitPrice.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("unit_price", "el producto no tiene precio; indique unit_price")
	}
	line.Value = domaininv.LineValue(line.Quantity, line.UnitPrice)
	if err := repos.Usages.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (uc *UsageUseCase) evaluate(ctx context.Context, productIDs []string) {
	if len(productIDs) == 0 {
		return
	}
	if _, err := uc.alerts.EvaluateLowStock(ctx, productIDs...); err != nil {
		uc.log.Error().Err(err).Strs("product_ids", productIDs).Msg("evaluación de alertas falló")
	}
}

func lockUsageLine(ctx context.Context, repos repository.TxRepos, lineID string) (*entity.UsageLine, error) {
	line, err := repos.Usages.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := repos.Usages.GetForUpdate(ctx, line.UsageID); err != nil {
		return nil, err
	}
	line, err = repos.Usages.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	return line, nil
}
