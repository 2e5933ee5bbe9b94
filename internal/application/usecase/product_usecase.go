package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// DefaultReorderLevel nivel de reorden cuando la petición no lo indica.
const DefaultReorderLevel int64 = 10

// ProductUseCase casos de uso CRUD para productos. Quantity solo se fija al crear;
// después cambia vía órdenes y usos.
type ProductUseCase struct {
	txRunner   inventory.TxRunner
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	alerts     *inventory.AlertEngine
	log        zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	movements repository.StockMovementRepository,
	alerts *inventory.AlertEngine,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:   txRunner,
		repo:       repo,
		categories: categories,
		movements:  movements,
		alerts:     alerts,
		log:        log,
	}
}

// Create crea un producto con su stock inicial y evalúa la alerta de stock bajo.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" {
		return nil, domain.Invalid("sku", "es requerido")
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	if in.Price.IsNegative() || in.PurchasePrice.IsNegative() {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	if in.Quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	reorder := DefaultReorderLevel
	if in.ReorderLevel != nil {
		reorder = *in.ReorderLevel
	}
	if reorder < 0 {
		return nil, domain.Invalid("reorder_level", "no puede ser negativo")
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		PurchasePrice: in.PurchasePrice,
		Price:         in.Price,
		Quantity:      in.Quantity,
		ReorderLevel:  reorder,
		Value:         domaininv.LineValue(in.Quantity, in.Price),
		ExpiryDate:    in.ExpiryDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if product.Quantity == 0 {
			return nil
		}
		// El stock inicial queda en el libro como una entrada.
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Kind:          entity.MovementReceive,
			Quantity:      product.Quantity,
			QuantityAfter: product.Quantity,
			Reference:     "initial",
			CreatedAt:     now,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, product.ID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. Un cambio de precio queda en el historial en la misma transacción.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name", "no puede estar vacío")
	}
	if (in.Price != nil && in.Price.IsNegative()) || (in.PurchasePrice != nil && in.PurchasePrice.IsNegative()) {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	if in.ReorderLevel != nil && *in.ReorderLevel < 0 {
		return nil, domain.Invalid("reorder_level", "no puede ser negativo")
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		product, err = repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		oldPurchase, oldPrice := product.PurchasePrice, product.Price
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.PurchasePrice != nil {
			product.PurchasePrice = *in.PurchasePrice
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.ReorderLevel != nil {
			product.ReorderLevel = *in.ReorderLevel
		}
		if in.ExpiryDate != nil {
			product.ExpiryDate = in.ExpiryDate
		}
		product.Value = domaininv.LineValue(product.Quantity, product.Price)
		product.UpdatedAt = time.Now()
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		if oldPurchase.Equal(product.PurchasePrice) && oldPrice.Equal(product.Price) {
			return nil
		}
		return repos.Prices.Create(ctx, &entity.PriceHistory{
			ID:               uuid.New().String(),
			ProductID:        product.ID,
			OldPurchasePrice: oldPurchase,
			NewPurchasePrice: product.PurchasePrice,
			OldPrice:         oldPrice,
			NewPrice:         product.Price,
			ChangedBy:        userID,
			ChangedAt:        product.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	if in.ReorderLevel != nil {
		uc.evaluate(ctx, product.ID)
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// LowStock productos con quantity <= reorder_level.
func (uc *ProductUseCase) LowStock(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	return uc.List(ctx, repository.ProductFilter{LowStock: true}, page)
}

// OutOfStock productos con quantity = 0.
func (uc *ProductUseCase) OutOfStock(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	return uc.List(ctx, repository.ProductFilter{OutOfStock: true}, page)
}

// Expired productos con fecha de vencimiento pasada.
func (uc *ProductUseCase) Expired(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	now := time.Now()
	return uc.List(ctx, repository.ProductFilter{ExpiresBefore: &now}, page)
}

// ExpiringSoon productos aún vigentes que vencen dentro de los próximos days días.
func (uc *ProductUseCase) ExpiringSoon(ctx context.Context, days int, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if days <= 0 {
		return nil, domain.Invalid("days", "debe ser mayor que cero")
	}
	now := time.Now()
	until := now.AddDate(0, 0, days)
	return uc.List(ctx, repository.ProductFilter{ExpiresAfter: &now, ExpiresBefore: &until}, page)
}

// Movements historial del libro de stock de un producto.
func (uc *ProductUseCase) Movements(ctx context.Context, productID string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:             m.ID,
			ProductID:      m.ProductID,
			Kind:           m.Kind,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reference:      m.Reference,
			CreatedAt:      m.CreatedAt,
			CreatedBy:      m.CreatedBy,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto. Falla con ErrConflict si tiene líneas de orden o de uso.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.Invalid("category_id", "la categoría no existe")
	}
	return nil
}

func (uc *ProductUseCase) evaluate(ctx context.Context, productID string) {
	if _, err := uc.alerts.EvaluateLowStock(ctx, productID); err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("evaluación de alertas falló")
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		Price:         p.Price,
		Quantity:      p.Quantity,
		ReorderLevel:  p.ReorderLevel,
		Value:         p.Value,
		LowStock:      domaininv.NeedsLowStockAlert(p.Quantity, p.ReorderLevel),
		ExpiryDate:    p.ExpiryDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
