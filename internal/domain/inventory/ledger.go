package inventory

import "github.com/jhoicas/stock-ledger-api/internal/domain"

// Direction indica qué operación previa deshace Reverse.
type Direction string

const (
	DirectionReceive  Direction = "RECEIVE"  // deshacer una entrada: resta
	DirectionDispense Direction = "DISPENSE" // deshacer una salida: suma
)

// Receive suma qty al stock actual. Nunca falla con qty > 0.
func Receive(current, qty int64) (int64, error) {
	if qty <= 0 {
		return current, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	return current + qty, nil
}

// Dispense resta qty del stock actual; si qty > current no modifica nada y devuelve *domain.StockError.
func Dispense(current, qty int64) (int64, error) {
	if qty <= 0 {
		return current, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if qty > current {
		return current, &domain.StockError{Available: current, Requested: qty}
	}
	return current - qty, nil
}

// Reverse deshace una entrada o salida previa.
// Si deshacer una entrada dejaría el stock negativo, el par de operaciones ya estaba roto: ErrLedgerInconsistency.
func Reverse(current, qty int64, dir Direction) (int64, error) {
	if qty <= 0 {
		return current, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	switch dir {
	case DirectionReceive:
		if qty > current {
			return current, domain.ErrLedgerInconsistency
		}
		return current - qty, nil
	case DirectionDispense:
		return current + qty, nil
	}
	return current, domain.Invalid("direction", "dirección desconocida")
}
