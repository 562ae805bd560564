package companycurrency

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// InvoiceAmounts totales de una factura en moneda de la empresa.
type InvoiceAmounts struct {
	Untaxed decimal.Decimal
	Tax     decimal.Decimal
	Total   decimal.Decimal
}

// Get devuelve el total indicado.
func (a InvoiceAmounts) Get(kind entity.AmountKind) decimal.Decimal {
	switch kind {
	case entity.AmountUntaxed:
		return a.Untaxed
	case entity.AmountTax:
		return a.Tax
	default:
		return a.Total
	}
}

// TaxAmounts base y monto de un impuesto en moneda de la empresa.
type TaxAmounts struct {
	Base   decimal.Decimal
	Amount decimal.Decimal
}

// Resolver decide de dónde sale cada monto en moneda de la empresa:
// snapshot persistido, apuntes contabilizados o conversión a la fecha de la factura.
type Resolver struct {
	converter Converter
	ledger    repository.LedgerRepository
	today     func() time.Time
}

// NewResolver construye el resolver. today se usa cuando la factura no tiene fecha.
func NewResolver(converter Converter, ledger repository.LedgerRepository, today func() time.Time) *Resolver {
	if today == nil {
		today = time.Now
	}
	return &Resolver{converter: converter, ledger: ledger, today: today}
}

// InvoiceAmount resuelve un total de la factura en moneda de la empresa.
func (r *Resolver) InvoiceAmount(ctx context.Context, inv *entity.Invoice, kind entity.AmountKind) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if v := inv.CompanyCache(kind); v != nil {
		return *v, nil
	}
	target := inv.CompanyCurrency()
	if target == nil || inv.Currency == nil {
		return decimal.Zero, fmt.Errorf("factura %s sin moneda: %w", inv.ID, domain.ErrInvalidInput)
	}
	if inv.HasMove() {
		return r.fromLedger(ctx, inv, kind, target)
	}
	value, err := r.converter.Convert(ctx, inv.NativeAmount(kind), inv.Currency, target, inv.CurrencyDate(r.today()), true)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convertir %s: %w", kind, err)
	}
	return value, nil
}

// fromLedger redondea cada apunte en la moneda de la empresa y los suma.
func (r *Resolver) fromLedger(ctx context.Context, inv *entity.Invoice, kind entity.AmountKind, target *entity.Currency) (decimal.Decimal, error) {
	rows, err := r.ledger.AggregateCompanyAmount(ctx, inv, kind)
	if err != nil {
		return decimal.Zero, fmt.Errorf("agregar apuntes %s: %w", kind, err)
	}
	total := decimal.Zero
	for _, v := range rows {
		total = total.Add(target.Round(v))
	}
	return total, nil
}

// InvoiceAmounts resuelve los tres totales de la factura.
func (r *Resolver) InvoiceAmounts(ctx context.Context, inv *entity.Invoice) (InvoiceAmounts, error) {
	var out InvoiceAmounts
	for _, kind := range entity.AmountKinds() {
		v, err := r.InvoiceAmount(ctx, inv, kind)
		if err != nil {
			return InvoiceAmounts{}, err
		}
		switch kind {
		case entity.AmountUntaxed:
			out.Untaxed = v
		case entity.AmountTax:
			out.Tax = v
		case entity.AmountTotal:
			out.Total = v
		}
	}
	return out, nil
}

// LineAmount resuelve el monto de una línea en moneda de la empresa.
// Si la línea ya está en la moneda de la empresa devuelve el monto sin convertir.
func (r *Resolver) LineAmount(ctx context.Context, line *entity.InvoiceLine) (decimal.Decimal, error) {
	currency := line.EffectiveCurrency()
	company := line.EffectiveCompany()
	if currency == nil || company == nil || company.Currency == nil {
		return decimal.Zero, fmt.Errorf("línea %s sin moneda o empresa: %w", line.ID, domain.ErrInvalidInput)
	}
	if currency.Equal(company.Currency) {
		return line.Amount(), nil
	}
	if line.CompanyAmountCache != nil {
		return *line.CompanyAmountCache, nil
	}
	value, err := r.converter.Convert(ctx, line.Amount(), currency, company.Currency, line.CurrencyDate(r.today()), true)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convertir línea %s: %w", line.ID, err)
	}
	return value, nil
}

// TaxAmount resuelve base o monto de un impuesto en moneda de la empresa.
func (r *Resolver) TaxAmount(ctx context.Context, tax *entity.InvoiceTax, field entity.TaxField) (decimal.Decimal, error) {
	if v := tax.CompanyCache(field); v != nil {
		return *v, nil
	}
	inv := tax.Invoice
	if inv == nil || inv.Currency == nil || inv.CompanyCurrency() == nil {
		return decimal.Zero, fmt.Errorf("impuesto %s sin factura: %w", tax.ID, domain.ErrInvalidInput)
	}
	native := tax.NativeValue(field)
	if inv.Currency.Equal(inv.CompanyCurrency()) {
		return native, nil
	}
	value, err := r.converter.Convert(ctx, native, inv.Currency, inv.CompanyCurrency(), inv.CurrencyDate(r.today()), true)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convertir impuesto %s %s: %w", tax.ID, field, err)
	}
	return value, nil
}

// TaxAmounts resuelve base y monto de un impuesto.
func (r *Resolver) TaxAmounts(ctx context.Context, tax *entity.InvoiceTax) (TaxAmounts, error) {
	base, err := r.TaxAmount(ctx, tax, entity.TaxBase)
	if err != nil {
		return TaxAmounts{}, err
	}
	amount, err := r.TaxAmount(ctx, tax, entity.TaxAmount)
	if err != nil {
		return TaxAmounts{}, err
	}
	return TaxAmounts{Base: base, Amount: amount}, nil
}
