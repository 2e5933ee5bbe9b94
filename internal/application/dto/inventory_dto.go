package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de orden de compra.
type OrderLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateLineRequest edición parcial de una línea de orden o de uso.
type UpdateLineRequest struct {
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	SupplierID string             `json:"supplier_id"`
	Notes      string             `json:"notes"`
	Lines      []OrderLineRequest `json:"lines"`
}

// UpdateOrderStatusRequest body para POST /api/orders/:id/update_status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderLineResponse salida de una línea de orden.
type OrderLineResponse struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Value        decimal.Decimal `json:"value"`
	StockApplied bool            `json:"stock_applied"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrderResponse salida de una orden con sus líneas.
type OrderResponse struct {
	ID         string              `json:"id"`
	SupplierID string              `json:"supplier_id"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes"`
	OrderDate  time.Time           `json:"order_date"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	TotalValue decimal.Decimal     `json:"total_value"`
	Lines      []OrderLineResponse `json:"lines,omitempty"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// UsageLineRequest línea de uso. Sin UnitPrice se usa el precio de venta del producto.
type UsageLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateUsageRequest body para POST /api/usages.
type CreateUsageRequest struct {
	UsageType string             `json:"usage_type"`
	Notes     string             `json:"notes"`
	Lines     []UsageLineRequest `json:"lines"`
}

// UsageLineResponse salida de una línea de uso.
type UsageLineResponse struct {
	ID        string          `json:"id"`
	UsageID   string          `json:"usage_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
}

// UsageResponse salida de un uso con sus líneas.
type UsageResponse struct {
	ID         string              `json:"id"`
	UsageType  string              `json:"usage_type"`
	Notes      string              `json:"notes"`
	Date       time.Time           `json:"date"`
	TotalValue decimal.Decimal     `json:"total_value"`
	Lines      []UsageLineResponse `json:"lines,omitempty"`
}

// UsageListResponse lista paginada de usos.
type UsageListResponse struct {
	Items []UsageResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID        string     `json:"id"`
	ProductID string     `json:"product_id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// AlertListResponse lista paginada de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
