package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType dirección de la factura.
type InvoiceType string

const (
	InvoiceTypeOut InvoiceType = "out" // factura de cliente
	InvoiceTypeIn  InvoiceType = "in"  // factura de proveedor
)

// InvoiceState estado del ciclo de vida de la factura.
type InvoiceState string

const (
	InvoiceStateDraft     InvoiceState = "draft"
	InvoiceStateValidated InvoiceState = "validated"
	InvoiceStatePosted    InvoiceState = "posted"
	InvoiceStatePaid      InvoiceState = "paid"
	InvoiceStateCancelled InvoiceState = "cancelled"
)

// Invoice representa la cabecera de una factura con sus líneas e impuestos.
// Los campos *Cache guardan el snapshot en moneda de la empresa; nil significa
// que el valor debe recalcularse.
type Invoice struct {
	ID             string
	Number         string
	CompanyID      string
	Company        *Company
	Type           InvoiceType
	State          InvoiceState
	CurrencyID     string
	Currency       *Currency
	InvoiceDate    *time.Time
	AccountingDate *time.Time
	AccountID      string  // cuenta por cobrar/pagar de la factura
	MoveID         *string // asiento contable, presente una vez contabilizada
	Lines          []*InvoiceLine
	Taxes          []*InvoiceTax

	CompanyUntaxedAmountCache *decimal.Decimal
	CompanyTaxAmountCache     *decimal.Decimal
	CompanyTotalAmountCache   *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyCurrency devuelve la moneda contable de la empresa (nil si no está cargada).
func (i *Invoice) CompanyCurrency() *Currency {
	if i.Company == nil {
		return nil
	}
	return i.Company.Currency
}

// DifferentCurrencies es true cuando la moneda de la empresa difiere de la moneda de la factura.
func (i *Invoice) DifferentCurrencies() bool {
	if i.Company == nil {
		return false
	}
	return !i.Company.Currency.Equal(i.Currency)
}

// HasMove indica si la factura ya tiene asiento contable.
func (i *Invoice) HasMove() bool {
	return i.MoveID != nil && *i.MoveID != ""
}

// CurrencyDate fecha usada para buscar la tasa: fecha contable, si no fecha de factura, si no today.
func (i *Invoice) CurrencyDate(today time.Time) time.Time {
	if i.AccountingDate != nil {
		return *i.AccountingDate
	}
	if i.InvoiceDate != nil {
		return *i.InvoiceDate
	}
	return today
}

// UntaxedAmount suma de las líneas en moneda de la factura.
func (i *Invoice) UntaxedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Lines {
		total = total.Add(l.Amount())
	}
	return i.Currency.Round(total)
}

// TaxAmount suma de los impuestos en moneda de la factura.
func (i *Invoice) TaxAmount() decimal.Decimal {
	total := decimal.Zero
	for _, t := range i.Taxes {
		total = total.Add(t.Amount)
	}
	return i.Currency.Round(total)
}

// TotalAmount base más impuestos.
func (i *Invoice) TotalAmount() decimal.Decimal {
	return i.UntaxedAmount().Add(i.TaxAmount())
}

// NativeAmount devuelve el total indicado en moneda de la factura.
func (i *Invoice) NativeAmount(kind AmountKind) decimal.Decimal {
	switch kind {
	case AmountUntaxed:
		return i.UntaxedAmount()
	case AmountTax:
		return i.TaxAmount()
	default:
		return i.TotalAmount()
	}
}

// CompanyCache devuelve el snapshot del total indicado.
func (i *Invoice) CompanyCache(kind AmountKind) *decimal.Decimal {
	switch kind {
	case AmountUntaxed:
		return i.CompanyUntaxedAmountCache
	case AmountTax:
		return i.CompanyTaxAmountCache
	default:
		return i.CompanyTotalAmountCache
	}
}

// SetCompanyCache fija el snapshot del total indicado.
func (i *Invoice) SetCompanyCache(kind AmountKind, v *decimal.Decimal) {
	switch kind {
	case AmountUntaxed:
		i.CompanyUntaxedAmountCache = v
	case AmountTax:
		i.CompanyTaxAmountCache = v
	default:
		i.CompanyTotalAmountCache = v
	}
}

// ClearCompanyCache borra los snapshots de la factura y, en cascada, de líneas e impuestos.
func (i *Invoice) ClearCompanyCache() {
	i.CompanyUntaxedAmountCache = nil
	i.CompanyTaxAmountCache = nil
	i.CompanyTotalAmountCache = nil
	for _, l := range i.Lines {
		l.CompanyAmountCache = nil
	}
	for _, t := range i.Taxes {
		t.CompanyBaseCache = nil
		t.CompanyAmountCache = nil
	}
}

// Duplicate crea una copia en borrador con IDs nuevos, sin asiento y sin snapshots.
func (i *Invoice) Duplicate(newID func() string, now time.Time) *Invoice {
	cp := *i
	cp.ID = newID()
	cp.Number = ""
	cp.State = InvoiceStateDraft
	cp.MoveID = nil
	cp.CreatedAt = now
	cp.UpdatedAt = now
	cp.Lines = make([]*InvoiceLine, 0, len(i.Lines))
	for _, l := range i.Lines {
		cp.Lines = append(cp.Lines, l.Duplicate(newID(), &cp))
	}
	cp.Taxes = make([]*InvoiceTax, 0, len(i.Taxes))
	for _, t := range i.Taxes {
		cp.Taxes = append(cp.Taxes, t.Duplicate(newID(), &cp))
	}
	cp.ClearCompanyCache()
	return &cp
}
