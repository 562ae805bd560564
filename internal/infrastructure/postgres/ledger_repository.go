package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo consultas de agregación sobre los apuntes del asiento de una factura.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Total: todos los apuntes del asiento, con valor solo en la cuenta de la factura.
const ledgerTotalQuery = `
	SELECT CASE WHEN ml.account_id = i.account_id
	            THEN $2::numeric * (ml.debit - ml.credit)
	            ELSE 0 END AS total_amount
	FROM invoices i
	JOIN moves m       ON m.id = i.move_id
	JOIN move_lines ml ON ml.move_id = m.id
	WHERE i.id = $1`

// Base: apuntes en las cuentas de las líneas, excluidas la cuenta de la factura y las
// cuentas de impuesto. Una cuenta compartida con un impuesto cuenta solo como impuesto.
const ledgerUntaxedQuery = `
	SELECT $2::numeric * (ml.credit - ml.debit) AS untaxed_amount
	FROM invoices i
	JOIN moves m       ON m.id = i.move_id
	JOIN move_lines ml ON ml.move_id = m.id
	WHERE i.id = $1
	  AND ml.account_id <> i.account_id
	  AND ml.account_id IN (SELECT account_id FROM invoice_lines WHERE invoice_id = $1)
	  AND ml.account_id NOT IN (SELECT account_id FROM invoice_taxes WHERE invoice_id = $1)`

// Impuesto: apuntes en las cuentas de los impuestos de la factura (no "fuera de las
// cuentas de línea"), excluida la cuenta de la factura.
const ledgerTaxQuery = `
	SELECT $2::numeric * (ml.credit - ml.debit) AS tax_amount
	FROM invoices i
	JOIN moves m       ON m.id = i.move_id
	JOIN move_lines ml ON ml.move_id = m.id
	WHERE i.id = $1
	  AND ml.account_id <> i.account_id
	  AND ml.account_id IN (SELECT account_id FROM invoice_taxes WHERE invoice_id = $1)`

// AggregateCompanyAmount devuelve un valor por apunte. En facturas de cliente el total
// es débito menos crédito y base/impuesto crédito menos débito; en proveedor al revés.
func (r *LedgerRepo) AggregateCompanyAmount(ctx context.Context, inv *entity.Invoice, kind entity.AmountKind) ([]decimal.Decimal, error) {
	var query string
	switch kind {
	case entity.AmountTotal:
		query = ledgerTotalQuery
	case entity.AmountUntaxed:
		query = ledgerUntaxedQuery
	case entity.AmountTax:
		query = ledgerTaxQuery
	default:
		return nil, domain.ErrInvalidInput
	}
	sign := decimal.NewFromInt(1)
	if inv.Type != entity.InvoiceTypeOut {
		sign = sign.Neg()
	}
	rows, err := r.q.Query(ctx, query, inv.ID, sign)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", kind, err)
	}
	defer rows.Close()
	var values []decimal.Decimal
	for rows.Next() {
		var v decimal.Decimal
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan ledger %s: %w", kind, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
