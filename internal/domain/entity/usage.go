package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de uso (salida de stock).
const (
	UsageTypeVet  = "VET"  // uso veterinario / dispensación interna
	UsageTypeSale = "SALE" // venta al propietario
)

// Usage agrupa las salidas de stock de un mismo evento (dispensación, venta o consumo).
type Usage struct {
	ID         string
	UsageType  string
	Notes      string
	Date       time.Time
	TotalValue decimal.Decimal
	CreatedBy  string
	UpdatedAt  time.Time
}

// UsageLine descuenta stock al crearse y lo devuelve al eliminarse.
type UsageLine struct {
	ID        string
	UsageID   string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Value     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidUsageType indica si t es un tipo de uso conocido.
func ValidUsageType(t string) bool {
	return t == UsageTypeVet || t == UsageTypeSale
}
