package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementReceive         = "RECEIVE"
	MovementDispense        = "DISPENSE"
	MovementReverseReceive  = "REVERSE_RECEIVE"  // deshace una entrada
	MovementReverseDispense = "REVERSE_DISPENSE" // deshace una salida
)

// StockMovement registro append-only de cada operación del libro de stock.
type StockMovement struct {
	ID             string
	ProductID      string
	Kind           string
	Quantity       int64
	QuantityBefore int64
	QuantityAfter  int64
	Reference      string // ID de la línea de orden o de uso que originó el movimiento
	CreatedAt      time.Time
	CreatedBy      string
}
