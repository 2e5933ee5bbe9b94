package inventory

import "github.com/shopspring/decimal"

// MoneyPlaces decimales de todos los montos. Redondeo bancario (half-even) en todo el sistema.
const MoneyPlaces = 2

// LineValue = cantidad * precio unitario, redondeado a MoneyPlaces.
func LineValue(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).RoundBank(MoneyPlaces)
}

// AggregateTotal suma los valores de las líneas. Sin líneas el total es 0.
func AggregateTotal(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total.RoundBank(MoneyPlaces)
}
