package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusReceived  = "RECEIVED"  // terminal
	OrderStatusCancelled = "CANCELLED" // terminal
)

// Order representa una orden de compra a un proveedor.
type Order struct {
	ID         string
	SupplierID string
	Status     string
	Notes      string
	OrderDate  time.Time
	ReceivedAt *time.Time
	TotalValue decimal.Decimal // suma de Value de sus líneas
	CreatedBy  string
	UpdatedAt  time.Time
}

// IsTerminal indica si la orden ya no admite cambios de estado ni de líneas.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusReceived || o.Status == OrderStatusCancelled
}

// OrderLine representa una línea de una orden. UnitPrice es la foto del precio al ordenar.
type OrderLine struct {
	ID           string
	OrderID      string
	ProductID    string
	Quantity     int64
	UnitPrice    decimal.Decimal
	Value        decimal.Decimal
	StockApplied bool // true si la cantidad ya fue acreditada al stock
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
