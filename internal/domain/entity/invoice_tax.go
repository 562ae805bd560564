package entity

import "github.com/shopspring/decimal"

// InvoiceTax línea de impuesto calculada para una factura.
type InvoiceTax struct {
	ID          string
	InvoiceID   string
	Invoice     *Invoice
	AccountID   string
	Description string
	Base        decimal.Decimal
	Amount      decimal.Decimal

	CompanyBaseCache   *decimal.Decimal
	CompanyAmountCache *decimal.Decimal
}

// CompanyCurrency moneda de la empresa de la factura (nil sin factura).
func (t *InvoiceTax) CompanyCurrency() *Currency {
	if t.Invoice == nil {
		return nil
	}
	return t.Invoice.CompanyCurrency()
}

// NativeValue devuelve base o monto en moneda de la factura.
func (t *InvoiceTax) NativeValue(f TaxField) decimal.Decimal {
	if f == TaxBase {
		return t.Base
	}
	return t.Amount
}

// CompanyCache devuelve el snapshot del campo indicado.
func (t *InvoiceTax) CompanyCache(f TaxField) *decimal.Decimal {
	if f == TaxBase {
		return t.CompanyBaseCache
	}
	return t.CompanyAmountCache
}

// Duplicate copia el impuesto bajo otra factura, sin snapshots.
func (t *InvoiceTax) Duplicate(id string, inv *Invoice) *InvoiceTax {
	cp := *t
	cp.ID = id
	cp.Invoice = inv
	cp.InvoiceID = inv.ID
	cp.CompanyBaseCache = nil
	cp.CompanyAmountCache = nil
	return &cp
}
