package companycurrency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

// InvoiceMoveBuilder arma el asiento de una factura en moneda de la empresa:
// un apunte por línea (ingreso/gasto), uno por impuesto y la contrapartida en la
// cuenta por cobrar/pagar de la factura.
type InvoiceMoveBuilder struct {
	converter Converter
	today     func() time.Time
}

// NewInvoiceMoveBuilder construye el generador de asientos.
func NewInvoiceMoveBuilder(converter Converter, today func() time.Time) *InvoiceMoveBuilder {
	if today == nil {
		today = time.Now
	}
	return &InvoiceMoveBuilder{converter: converter, today: today}
}

// BuildMove convierte cada línea e impuesto a la fecha de la factura y cuadra el asiento.
func (b *InvoiceMoveBuilder) BuildMove(ctx context.Context, inv *entity.Invoice) (*entity.Move, error) {
	target := inv.CompanyCurrency()
	if target == nil || inv.Currency == nil || inv.AccountID == "" {
		return nil, fmt.Errorf("factura %s incompleta para contabilizar: %w", inv.ID, domain.ErrInvalidInput)
	}
	date := inv.CurrencyDate(b.today())
	move := &entity.Move{
		ID:        uuid.New().String(),
		CompanyID: inv.CompanyID,
		InvoiceID: inv.ID,
		Date:      date,
		CreatedAt: time.Now(),
	}

	// En facturas de cliente el ingreso y el impuesto van al crédito; en proveedor al débito.
	counterpart := decimal.Zero
	add := func(accountID string, amount decimal.Decimal) error {
		value, err := b.converter.Convert(ctx, amount, inv.Currency, target, date, true)
		if err != nil {
			return err
		}
		counterpart = counterpart.Add(value)
		move.Lines = append(move.Lines, newMoveLine(move.ID, accountID, value, inv.Type != entity.InvoiceTypeOut))
		return nil
	}
	for _, l := range inv.Lines {
		if err := add(l.AccountID, l.Amount()); err != nil {
			return nil, fmt.Errorf("línea %s: %w", l.ID, err)
		}
	}
	for _, t := range inv.Taxes {
		if err := add(t.AccountID, t.Amount); err != nil {
			return nil, fmt.Errorf("impuesto %s: %w", t.ID, err)
		}
	}
	move.Lines = append(move.Lines, newMoveLine(move.ID, inv.AccountID, counterpart, inv.Type == entity.InvoiceTypeOut))
	return move, nil
}

// newMoveLine coloca amount al débito o al crédito; un monto negativo cambia de lado.
func newMoveLine(moveID, accountID string, amount decimal.Decimal, debit bool) *entity.MoveLine {
	if amount.IsNegative() {
		amount = amount.Neg()
		debit = !debit
	}
	ml := &entity.MoveLine{
		ID:        uuid.New().String(),
		MoveID:    moveID,
		AccountID: accountID,
		Debit:     decimal.Zero,
		Credit:    decimal.Zero,
	}
	if debit {
		ml.Debit = amount
	} else {
		ml.Credit = amount
	}
	return ml
}
