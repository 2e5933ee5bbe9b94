package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory registra cada cambio de precio de un producto.
// Los registros son inmutables: nunca se eliminan ni modifican.
type PriceHistory struct {
	ID               string
	ProductID        string
	OldPurchasePrice decimal.Decimal
	NewPurchasePrice decimal.Decimal
	OldPrice         decimal.Decimal
	NewPrice         decimal.Decimal
	ChangedBy        string
	ChangedAt        time.Time
}
