package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo con stock (producto o medicamento).
// Quantity solo cambia vía el libro de stock; Value = Price * Quantity se recalcula en cada guardado.
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	Description   string
	CategoryID    string // vacío si no tiene categoría
	PurchasePrice decimal.Decimal // precio de compra
	Price         decimal.Decimal // precio de venta / unitario
	Quantity      int64
	ReorderLevel  int64 // nivel de reorden: stock <= ReorderLevel abre alerta
	Value         decimal.Decimal
	ExpiryDate    *time.Time // solo medicamentos
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
