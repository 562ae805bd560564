package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Move asiento contable generado al contabilizar una factura.
type Move struct {
	ID        string
	CompanyID string
	InvoiceID string
	Date      time.Time
	Lines     []*MoveLine
	CreatedAt time.Time
}

// MoveLine apunte del asiento, en moneda de la empresa.
type MoveLine struct {
	ID        string
	MoveID    string
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Balanced indica si la suma de débitos iguala la de créditos.
func (m *Move) Balanced() bool {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range m.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit.Equal(credit)
}
