package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency representa una moneda con su regla de redondeo.
type Currency struct {
	ID       string
	Code     string // ISO 4217: USD, EUR, COP...
	Name     string
	Digits   int32           // decimales que se muestran/persisten
	Rounding decimal.Decimal // paso de redondeo, ej. 0.01
}

// Round aplica la regla de redondeo de la moneda: múltiplo de Rounding (half-even)
// y luego Digits decimales.
func (c *Currency) Round(amount decimal.Decimal) decimal.Decimal {
	if c == nil {
		return amount
	}
	if c.Rounding.IsPositive() {
		amount = amount.Div(c.Rounding).RoundBank(0).Mul(c.Rounding)
	}
	return amount.RoundBank(c.Digits)
}

// IsZero indica si el monto es cero una vez redondeado en esta moneda.
func (c *Currency) IsZero(amount decimal.Decimal) bool {
	return c.Round(amount).IsZero()
}

// Equal compara monedas por ID (nil-safe: dos nil son iguales).
func (c *Currency) Equal(other *Currency) bool {
	if c == nil || other == nil {
		return c == nil && other == nil
	}
	return c.ID == other.ID
}

// CurrencyRate tasa de una moneda respecto a la moneda base del sistema a partir de Date.
// Una moneda con tasa 2 vale la mitad que una con tasa 1.
type CurrencyRate struct {
	ID         string
	CurrencyID string
	Date       time.Time
	Rate       decimal.Decimal
}
