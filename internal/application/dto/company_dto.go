package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyResponse moneda con su regla de redondeo.
type CurrencyResponse struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Digits   int32           `json:"digits"`
	Rounding decimal.Decimal `json:"rounding"`
}

// CompanyResponse salida de una empresa con su moneda contable.
type CompanyResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Currency  CurrencyResponse `json:"currency"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ConvertRequest parámetros de GET /api/currencies/convert.
// Date en formato YYYY-MM-DD; vacío usa la fecha actual. Sin To se usa la moneda de la empresa.
type ConvertRequest struct {
	From   string `query:"from"`
	To     string `query:"to"`
	Amount string `query:"amount"`
	Date   string `query:"date"`
	Round  *bool  `query:"round"`
}

// ConvertResponse resultado de una conversión.
type ConvertResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Result decimal.Decimal `json:"result"`
}
