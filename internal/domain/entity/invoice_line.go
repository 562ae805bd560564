package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine representa una línea de factura. Invoice puede ser nil cuando la línea
// existe fuera de una factura (ej. valores por defecto de una plantilla); en ese caso
// se usan Currency y Company propios.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Invoice     *Invoice
	CurrencyID  string
	Currency    *Currency
	CompanyID   string
	Company     *Company
	AccountID   string // cuenta de ingreso/gasto
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal

	CompanyAmountCache *decimal.Decimal
}

// EffectiveCurrency moneda de transacción: la de la factura o, sin factura, la propia.
func (l *InvoiceLine) EffectiveCurrency() *Currency {
	if l.Invoice != nil && l.Invoice.Currency != nil {
		return l.Invoice.Currency
	}
	return l.Currency
}

// EffectiveCompany empresa de la factura o, sin factura, la propia.
func (l *InvoiceLine) EffectiveCompany() *Company {
	if l.Invoice != nil && l.Invoice.Company != nil {
		return l.Invoice.Company
	}
	return l.Company
}

// CompanyCurrency moneda de la empresa de la factura; sin factura cae a la moneda de la línea.
func (l *InvoiceLine) CompanyCurrency() *Currency {
	if l.Invoice != nil && l.Invoice.Company != nil && l.Invoice.Company.Currency != nil {
		return l.Invoice.Company.Currency
	}
	return l.Currency
}

// CurrencyDate fecha de la tasa: la de la factura o today.
func (l *InvoiceLine) CurrencyDate(today time.Time) time.Time {
	if l.Invoice != nil {
		return l.Invoice.CurrencyDate(today)
	}
	return today
}

// Amount cantidad por precio unitario, redondeado en la moneda de transacción.
func (l *InvoiceLine) Amount() decimal.Decimal {
	return l.EffectiveCurrency().Round(l.Quantity.Mul(l.UnitPrice))
}

// Duplicate copia la línea bajo otra factura, sin snapshot.
func (l *InvoiceLine) Duplicate(id string, inv *Invoice) *InvoiceLine {
	cp := *l
	cp.ID = id
	cp.Invoice = inv
	cp.InvoiceID = inv.ID
	cp.CompanyAmountCache = nil
	return &cp
}
