package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es el stock inicial.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	ReorderLevel  *int64          `json:"reorder_level"` // por defecto 10
	ExpiryDate    *time.Time      `json:"expiry_date"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Quantity: se maneja vía órdenes y usos).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"category_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Price         *decimal.Decimal `json:"price"`
	ReorderLevel  *int64           `json:"reorder_level"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	ReorderLevel  int64           `json:"reorder_level"`
	Value         decimal.Decimal `json:"value"`
	LowStock      bool            `json:"low_stock"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PriceHistoryResponse un cambio de precio.
type PriceHistoryResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	OldPurchasePrice decimal.Decimal `json:"old_purchase_price"`
	NewPurchasePrice decimal.Decimal `json:"new_purchase_price"`
	OldPrice         decimal.Decimal `json:"old_price"`
	NewPrice         decimal.Decimal `json:"new_price"`
	ChangedBy        string          `json:"changed_by,omitempty"`
	ChangedAt        time.Time       `json:"changed_at"`
}

// StockMovementResponse un movimiento del libro de stock.
type StockMovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Kind           string    `json:"kind"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	Reference      string    `json:"reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by,omitempty"`
}

// PriceHistoryListResponse historial de precios paginado (más reciente primero).
type PriceHistoryListResponse struct {
	Items []PriceHistoryResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// StockMovementListResponse movimientos paginados (más reciente primero).
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
