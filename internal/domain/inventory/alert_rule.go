package inventory

import (
	"fmt"
	"time"
)

// NeedsLowStockAlert indica si el stock quedó en o por debajo del nivel de reorden.
func NeedsLowStockAlert(quantity, reorderLevel int64) bool {
	return quantity <= reorderLevel
}

// IsExpired indica si la fecha de vencimiento ya pasó (o es ahora).
func IsExpired(expiry *time.Time, now time.Time) bool {
	return expiry != nil && !expiry.After(now)
}

// LowStockSubject asunto del aviso externo de stock bajo.
func LowStockSubject(name string) string {
	return fmt.Sprintf("Alerta de stock bajo - %s", name)
}

// LowStockMessage mensaje de la alerta LOW_STOCK.
func LowStockMessage(name string, quantity, reorderLevel int64) string {
	return fmt.Sprintf("El producto '%s' tiene stock bajo. Stock actual: %d. Nivel de reorden: %d", name, quantity, reorderLevel)
}

// ExpirySubject asunto del aviso externo de vencimiento.
func ExpirySubject(name string) string {
	return fmt.Sprintf("Producto vencido - %s", name)
}

// ExpiryMessage mensaje de la alerta EXPIRY.
func ExpiryMessage(name string, expiry time.Time) string {
	return fmt.Sprintf("El producto '%s' venció el %s", name, expiry.Format("2006-01-02"))
}
