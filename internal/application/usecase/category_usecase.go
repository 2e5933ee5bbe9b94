package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías (árbol sin ciclos).
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products *ProductUseCase
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, products *ProductUseCase) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	if err := uc.checkParent(ctx, "", in.ParentID); err != nil {
		return nil, err
	}
	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		ParentID:    in.ParentID,
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	return toCategoryResponse(category), nil
}

// Update reemplaza nombre, descripción y padre.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	if err := uc.checkParent(ctx, id, in.ParentID); err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = in.Description
	category.ParentID = in.ParentID
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// checkParent rechaza un padre inexistente, la propia categoría o uno de sus descendientes.
func (uc *CategoryUseCase) checkParent(ctx context.Context, id, parentID string) error {
	seen := map[string]bool{}
	for cur := parentID; cur != ""; {
		if cur == id {
			return domain.Invalid("parent_id", "la categoría no puede ser su propio ancestro")
		}
		if seen[cur] {
			// El árbol ya tenía un ciclo; no se agrava.
			return domain.Invalid("parent_id", "jerarquía de categorías inconsistente")
		}
		seen[cur] = true
		c, err := uc.repo.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.Invalid("parent_id", "la categoría padre no existe")
		}
		cur = c.ParentID
	}
	return nil
}

// List lista categorías por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.CategoryListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListProducts productos de la categoría.
func (uc *CategoryUseCase) ListProducts(ctx context.Context, id string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return uc.products.List(ctx, repository.ProductFilter{CategoryID: id}, page)
}

// Delete elimina una categoría sin productos; sus subcategorías pasan a ser raíz.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
