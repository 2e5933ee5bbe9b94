package entity

import "time"

// Tipos de alerta.
const (
	AlertTypeLowStock = "LOW_STOCK"
	AlertTypeExpiry   = "EXPIRY"
)

// Alert es una notificación de stock. Abierta mientras IsRead == false;
// a lo sumo una abierta por (producto, tipo).
type Alert struct {
	ID        string
	ProductID string
	Type      string
	Message   string
	IsRead    bool
	CreatedAt time.Time
	ReadAt    *time.Time
}

// ValidAlertType indica si t es un tipo de alerta conocido.
func ValidAlertType(t string) bool {
	return t == AlertTypeLowStock || t == AlertTypeExpiry
}
