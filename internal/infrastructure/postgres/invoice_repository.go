package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste cabecera, líneas e impuestos en un solo batch.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO invoices (id, number, company_id, type, state, currency_id, invoice_date, accounting_date,
		                      account_id, move_id, company_untaxed_amount_cache, company_tax_amount_cache,
		                      company_total_amount_cache, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		inv.ID, nullIfEmpty(inv.Number), inv.CompanyID, string(inv.Type), string(inv.State), inv.CurrencyID,
		inv.InvoiceDate, inv.AccountingDate, inv.AccountID, inv.MoveID,
		nullDecimal(inv.CompanyUntaxedAmountCache), nullDecimal(inv.CompanyTaxAmountCache),
		nullDecimal(inv.CompanyTotalAmountCache), inv.CreatedAt, inv.UpdatedAt,
	)
	for _, l := range inv.Lines {
		batch.Queue(`
			INSERT INTO invoice_lines (id, invoice_id, currency_id, company_id, account_id, description,
			                           quantity, unit_price, company_amount_cache)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, inv.ID, nullIfEmpty(l.CurrencyID), nullIfEmpty(l.CompanyID), l.AccountID, l.Description,
			l.Quantity, l.UnitPrice, nullDecimal(l.CompanyAmountCache),
		)
	}
	for _, t := range inv.Taxes {
		batch.Queue(`
			INSERT INTO invoice_taxes (id, invoice_id, account_id, description, base, amount,
			                           company_base_cache, company_amount_cache)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, inv.ID, t.AccountID, t.Description, t.Base, t.Amount,
			nullDecimal(t.CompanyBaseCache), nullDecimal(t.CompanyAmountCache),
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("invoice already exists: %w", err)
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la factura con empresa, monedas, líneas e impuestos.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT i.id, COALESCE(i.number, ''), i.company_id, i.type, i.state, i.currency_id,
		       i.invoice_date, i.accounting_date, i.account_id, i.move_id,
		       i.company_untaxed_amount_cache, i.company_tax_amount_cache, i.company_total_amount_cache,
		       i.created_at, i.updated_at,
		       c.name, c.currency_id,
		       cur.code, cur.name, cur.digits, cur.rounding,
		       ccur.code, ccur.name, ccur.digits, ccur.rounding
		FROM invoices i
		JOIN companies c     ON c.id = i.company_id
		JOIN currencies cur  ON cur.id = i.currency_id
		JOIN currencies ccur ON ccur.id = c.currency_id
		WHERE i.id = $1`
	var (
		inv                   entity.Invoice
		typ, state            string
		untaxed, tax, total   decimal.NullDecimal
		company               entity.Company
		currency, companyCurr entity.Currency
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.CompanyID, &typ, &state, &inv.CurrencyID,
		&inv.InvoiceDate, &inv.AccountingDate, &inv.AccountID, &inv.MoveID,
		&untaxed, &tax, &total,
		&inv.CreatedAt, &inv.UpdatedAt,
		&company.Name, &company.CurrencyID,
		&currency.Code, &currency.Name, &currency.Digits, &currency.Rounding,
		&companyCurr.Code, &companyCurr.Name, &companyCurr.Digits, &companyCurr.Rounding,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Type = entity.InvoiceType(typ)
	inv.State = entity.InvoiceState(state)
	inv.CompanyUntaxedAmountCache = fromNullDecimal(untaxed)
	inv.CompanyTaxAmountCache = fromNullDecimal(tax)
	inv.CompanyTotalAmountCache = fromNullDecimal(total)
	currency.ID = inv.CurrencyID
	companyCurr.ID = company.CurrencyID
	company.ID = inv.CompanyID
	company.Currency = &companyCurr
	inv.Company = &company
	inv.Currency = &currency

	if inv.Lines, err = r.linesByInvoice(ctx, &inv); err != nil {
		return nil, err
	}
	if inv.Taxes, err = r.taxesByInvoice(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) linesByInvoice(ctx context.Context, inv *entity.Invoice) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, COALESCE(currency_id, ''), COALESCE(company_id, ''), account_id, description,
		       quantity, unit_price, company_amount_cache
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		l := &entity.InvoiceLine{InvoiceID: inv.ID, Invoice: inv}
		var cache decimal.NullDecimal
		if err := rows.Scan(&l.ID, &l.CurrencyID, &l.CompanyID, &l.AccountID, &l.Description,
			&l.Quantity, &l.UnitPrice, &cache); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.CompanyAmountCache = fromNullDecimal(cache)
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) taxesByInvoice(ctx context.Context, inv *entity.Invoice) ([]*entity.InvoiceTax, error) {
	query := `
		SELECT id, account_id, description, base, amount, company_base_cache, company_amount_cache
		FROM invoice_taxes WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("list invoice taxes: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceTax
	for rows.Next() {
		t := &entity.InvoiceTax{InvoiceID: inv.ID, Invoice: inv}
		var base, amount decimal.NullDecimal
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Description, &t.Base, &t.Amount, &base, &amount); err != nil {
			return nil, fmt.Errorf("scan invoice tax: %w", err)
		}
		t.CompanyBaseCache = fromNullDecimal(base)
		t.CompanyAmountCache = fromNullDecimal(amount)
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetLineByID obtiene una línea. Si pertenece a una factura devuelve la instancia cargada
// dentro de la factura; si no, carga su moneda y empresa propias.
func (r *InvoiceRepo) GetLineByID(ctx context.Context, id string) (*entity.InvoiceLine, error) {
	query := `
		SELECT id, COALESCE(invoice_id, ''), COALESCE(currency_id, ''), COALESCE(company_id, ''),
		       account_id, description, quantity, unit_price, company_amount_cache
		FROM invoice_lines WHERE id = $1`
	var (
		l     entity.InvoiceLine
		cache decimal.NullDecimal
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.InvoiceID, &l.CurrencyID, &l.CompanyID,
		&l.AccountID, &l.Description, &l.Quantity, &l.UnitPrice, &cache)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice line: %w", err)
	}
	l.CompanyAmountCache = fromNullDecimal(cache)

	if l.InvoiceID != "" {
		inv, err := r.GetByID(ctx, l.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv != nil {
			for _, il := range inv.Lines {
				if il.ID == l.ID {
					return il, nil
				}
			}
		}
		return nil, nil
	}

	if l.CurrencyID != "" {
		if l.Currency, err = NewCurrencyRepository(r.q).GetByID(ctx, l.CurrencyID); err != nil {
			return nil, err
		}
	}
	if l.CompanyID != "" {
		if l.Company, err = NewCompanyRepository(r.q).GetByID(ctx, l.CompanyID); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

// SetState cambia el estado de la factura.
func (r *InvoiceRepo) SetState(ctx context.Context, id string, state entity.InvoiceState) error {
	_, err := r.q.Exec(ctx, `UPDATE invoices SET state = $2, updated_at = $3 WHERE id = $1`,
		id, string(state), time.Now())
	if err != nil {
		return fmt.Errorf("update invoice state: %w", err)
	}
	return nil
}

// SetMove enlaza (o desenlaza con nil) el asiento de la factura.
func (r *InvoiceRepo) SetMove(ctx context.Context, id string, moveID *string) error {
	_, err := r.q.Exec(ctx, `UPDATE invoices SET move_id = $2, updated_at = $3 WHERE id = $1`,
		id, moveID, time.Now())
	if err != nil {
		return fmt.Errorf("update invoice move: %w", err)
	}
	return nil
}

// WriteCompanyCache escribe los snapshots de cabecera; cada par aplica a un conjunto de facturas.
func (r *InvoiceRepo) WriteCompanyCache(ctx context.Context, writes []repository.InvoiceCacheWrite) error {
	batch := &pgx.Batch{}
	now := time.Now()
	for _, w := range writes {
		batch.Queue(`
			UPDATE invoices
			SET company_untaxed_amount_cache = $2,
			    company_tax_amount_cache     = $3,
			    company_total_amount_cache   = $4,
			    updated_at                   = $5
			WHERE id = ANY($1)`,
			w.InvoiceIDs, nullDecimal(w.Untaxed), nullDecimal(w.Tax), nullDecimal(w.Total), now,
		)
	}
	return r.execBatch(ctx, batch, "update invoice company cache")
}

// WriteLineCache escribe company_amount_cache de las líneas indicadas.
func (r *InvoiceRepo) WriteLineCache(ctx context.Context, writes []repository.LineCacheWrite) error {
	batch := &pgx.Batch{}
	for _, w := range writes {
		batch.Queue(`UPDATE invoice_lines SET company_amount_cache = $2 WHERE id = ANY($1)`,
			w.LineIDs, nullDecimal(w.CompanyAmount))
	}
	return r.execBatch(ctx, batch, "update invoice line company cache")
}

// WriteTaxCache escribe company_base_cache y company_amount_cache de los impuestos indicados.
func (r *InvoiceRepo) WriteTaxCache(ctx context.Context, writes []repository.TaxCacheWrite) error {
	batch := &pgx.Batch{}
	for _, w := range writes {
		batch.Queue(`
			UPDATE invoice_taxes
			SET company_base_cache = $2, company_amount_cache = $3
			WHERE id = ANY($1)`,
			w.TaxIDs, nullDecimal(w.CompanyBase), nullDecimal(w.CompanyAmount))
	}
	return r.execBatch(ctx, batch, "update invoice tax company cache")
}

func (r *InvoiceRepo) execBatch(ctx context.Context, batch *pgx.Batch, op string) error {
	if batch.Len() == 0 {
		return nil
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
