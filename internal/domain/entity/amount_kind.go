package entity

import "github.com/shopspring/decimal"

// AmountKind identifica cada total de factura que tiene equivalente en moneda de la empresa.
type AmountKind int

const (
	AmountUntaxed AmountKind = iota + 1
	AmountTax
	AmountTotal
)

// AmountKinds devuelve los tres totales en el orden en que se calculan y persisten.
func AmountKinds() []AmountKind {
	return []AmountKind{AmountUntaxed, AmountTax, AmountTotal}
}

func (k AmountKind) String() string {
	switch k {
	case AmountUntaxed:
		return "untaxed_amount"
	case AmountTax:
		return "tax_amount"
	case AmountTotal:
		return "total_amount"
	default:
		return "unknown"
	}
}

// Valid indica si k es uno de los tres totales conocidos.
func (k AmountKind) Valid() bool {
	return k >= AmountUntaxed && k <= AmountTotal
}

// TaxField identifica los montos de una línea de impuesto con equivalente en moneda de la empresa.
type TaxField int

const (
	TaxBase TaxField = iota + 1
	TaxAmount
)

func (f TaxField) String() string {
	switch f {
	case TaxBase:
		return "base"
	case TaxAmount:
		return "amount"
	default:
		return "unknown"
	}
}

// AmountPtr devuelve un puntero a una copia de d (para los campos cache).
func AmountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
