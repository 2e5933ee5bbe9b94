package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// PriceHistoryUseCase consulta el historial de precios (solo lectura).
type PriceHistoryUseCase struct {
	repo     repository.PriceHistoryRepository
	products repository.ProductRepository
}

// NewPriceHistoryUseCase construye el caso de uso.
func NewPriceHistoryUseCase(repo repository.PriceHistoryRepository, products repository.ProductRepository) *PriceHistoryUseCase {
	return &PriceHistoryUseCase{repo: repo, products: products}
}

// ListByProduct cambios de precio del producto, más reciente primero.
func (uc *PriceHistoryUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) (*dto.PriceHistoryListResponse, error) {
	page.DefaultPage()
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceHistoryResponse, 0, len(list))
	for _, h := range list {
		items = append(items, dto.PriceHistoryResponse{
			ID:               h.ID,
			ProductID:        h.ProductID,
			OldPurchasePrice: h.OldPurchasePrice,
			NewPurchasePrice: h.NewPurchasePrice,
			OldPrice:         h.OldPrice,
			NewPrice:         h.NewPrice,
			ChangedBy:        h.ChangedBy,
			ChangedAt:        h.ChangedAt,
		})
	}
	return &dto.PriceHistoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
