package companycurrency

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// ── Datos de prueba ───────────────────────────────────────────────────────────

var (
	usd = &entity.Currency{ID: "usd", Code: "USD", Digits: 2, Rounding: decimal.RequireFromString("0.01")}
	eur = &entity.Currency{ID: "eur", Code: "EUR", Digits: 2, Rounding: decimal.RequireFromString("0.01")}

	invoiceDay = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rateDay    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal { return entity.AmountPtr(d(s)) }

func usdCompany(id string) *entity.Company {
	return &entity.Company{ID: id, Name: "ACME", CurrencyID: usd.ID, Currency: usd}
}

// newInvoice arma la factura de los escenarios: líneas 200 y 20, impuesto 20.
func newInvoice(id string, typ entity.InvoiceType, cur *entity.Currency) *entity.Invoice {
	date := invoiceDay
	inv := &entity.Invoice{
		ID:          id,
		Number:      "F-" + id,
		CompanyID:   "c1",
		Company:     usdCompany("c1"),
		Type:        typ,
		State:       entity.InvoiceStateDraft,
		CurrencyID:  cur.ID,
		Currency:    cur,
		InvoiceDate: &date,
		AccountID:   "acc-receivable",
	}
	inv.Lines = []*entity.InvoiceLine{
		{ID: id + "-l1", InvoiceID: id, Invoice: inv, AccountID: "acc-revenue", Description: "Servicio", Quantity: d("2"), UnitPrice: d("100")},
		{ID: id + "-l2", InvoiceID: id, Invoice: inv, AccountID: "acc-revenue", Description: "Envío", Quantity: d("1"), UnitPrice: d("20")},
	}
	inv.Taxes = []*entity.InvoiceTax{
		{ID: id + "-t1", InvoiceID: id, Invoice: inv, AccountID: "acc-tax", Description: "IVA 10%", Base: d("200"), Amount: d("20")},
	}
	return inv
}

// ── Tasas ─────────────────────────────────────────────────────────────────────

// memRates tasas fijas por moneda; una moneda ausente no tiene tasa.
type memRates struct {
	rates map[string]decimal.Decimal
}

func newRates(pairs map[string]string) *memRates {
	r := &memRates{rates: map[string]decimal.Decimal{}}
	for id, v := range pairs {
		r.rates[id] = d(v)
	}
	return r
}

func (m *memRates) GetByID(_ context.Context, id string) (*entity.Currency, error) {
	switch id {
	case usd.ID:
		return usd, nil
	case eur.ID:
		return eur, nil
	}
	return nil, nil
}

func (m *memRates) RateAt(_ context.Context, currencyID string, date time.Time) (*entity.CurrencyRate, error) {
	v, ok := m.rates[currencyID]
	if !ok || date.Before(rateDay) {
		return nil, nil
	}
	return &entity.CurrencyRate{ID: "r-" + currencyID, CurrencyID: currencyID, Date: rateDay, Rate: v}, nil
}

// countingConverter cuenta las conversiones y delega en next.
type countingConverter struct {
	next  Converter
	calls int
	dates []time.Time
}

func (c *countingConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to *entity.Currency, asOf time.Time, round bool) (decimal.Decimal, error) {
	c.calls++
	c.dates = append(c.dates, asOf)
	return c.next.Convert(ctx, amount, from, to, asOf, round)
}

// ── Persistencia en memoria ───────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	lines    map[string]*entity.InvoiceLine // líneas sin factura
	moves    map[string]*entity.Move

	invoiceCacheWrites int
	lineCacheWrites    int
	taxCacheWrites     int
}

func newStore(invs ...*entity.Invoice) *memStore {
	s := &memStore{
		invoices: map[string]*entity.Invoice{},
		lines:    map[string]*entity.InvoiceLine{},
		moves:    map[string]*entity.Move{},
	}
	for _, inv := range invs {
		s.invoices[inv.ID] = cloneInvoice(inv)
	}
	return s
}

// invoice devuelve una copia de lo persistido.
func (s *memStore) invoice(id string) *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invoices[id]; ok {
		return cloneInvoice(inv)
	}
	return nil
}

type snapshot struct {
	invoices map[string]*entity.Invoice
	moves    map[string]*entity.Move
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{invoices: map[string]*entity.Invoice{}, moves: map[string]*entity.Move{}}
	for id, inv := range s.invoices {
		snap.invoices[id] = cloneInvoice(inv)
	}
	for id, m := range s.moves {
		snap.moves[id] = m
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = snap.invoices
	s.moves = snap.moves
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Lines = make([]*entity.InvoiceLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lc := *l
		lc.Invoice = &cp
		cp.Lines = append(cp.Lines, &lc)
	}
	cp.Taxes = make([]*entity.InvoiceTax, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		tc := *t
		tc.Invoice = &cp
		cp.Taxes = append(cp.Taxes, &tc)
	}
	return &cp
}

type memInvoices struct{ s *memStore }

var _ repository.InvoiceRepository = memInvoices{}

func (r memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; ok {
		return domain.ErrConflict
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return r.s.invoice(id), nil
}

func (r memInvoices) GetLineByID(_ context.Context, id string) (*entity.InvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.lines[id]; ok {
		cp := *l
		return &cp, nil
	}
	for _, inv := range r.s.invoices {
		for i, l := range inv.Lines {
			if l.ID == id {
				return cloneInvoice(inv).Lines[i], nil
			}
		}
	}
	return nil, nil
}

func (r memInvoices) SetState(_ context.Context, id string, state entity.InvoiceState) error {
	return r.update(id, func(inv *entity.Invoice) { inv.State = state })
}

func (r memInvoices) SetMove(_ context.Context, id string, moveID *string) error {
	return r.update(id, func(inv *entity.Invoice) { inv.MoveID = moveID })
}

func (r memInvoices) WriteCompanyCache(_ context.Context, writes []repository.InvoiceCacheWrite) error {
	r.s.mu.Lock()
	r.s.invoiceCacheWrites++
	r.s.mu.Unlock()
	for _, w := range writes {
		for _, id := range w.InvoiceIDs {
			w := w
			if err := r.update(id, func(inv *entity.Invoice) {
				inv.CompanyUntaxedAmountCache = w.Untaxed
				inv.CompanyTaxAmountCache = w.Tax
				inv.CompanyTotalAmountCache = w.Total
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r memInvoices) WriteLineCache(_ context.Context, writes []repository.LineCacheWrite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lineCacheWrites++
	for _, w := range writes {
		for _, id := range w.LineIDs {
			for _, inv := range r.s.invoices {
				for _, l := range inv.Lines {
					if l.ID == id {
						l.CompanyAmountCache = w.CompanyAmount
					}
				}
			}
		}
	}
	return nil
}

func (r memInvoices) WriteTaxCache(_ context.Context, writes []repository.TaxCacheWrite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.taxCacheWrites++
	for _, w := range writes {
		for _, id := range w.TaxIDs {
			for _, inv := range r.s.invoices {
				for _, t := range inv.Taxes {
					if t.ID == id {
						t.CompanyBaseCache = w.CompanyBase
						t.CompanyAmountCache = w.CompanyAmount
					}
				}
			}
		}
	}
	return nil
}

func (r memInvoices) update(id string, fn func(inv *entity.Invoice)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(inv)
	return nil
}

type memMoves struct{ s *memStore }

func (r memMoves) Create(_ context.Context, m *entity.Move) error {
	if !m.Balanced() {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.moves[m.ID] = m
	return nil
}

func (r memMoves) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.moves, id)
	return nil
}

// memLedger reproduce en memoria las reglas de las consultas contables:
// total en la cuenta de la factura, base en cuentas de línea que no son de impuesto,
// impuesto en cuentas de impuesto.
type memLedger struct{ s *memStore }

func (r memLedger) AggregateCompanyAmount(_ context.Context, inv *entity.Invoice, kind entity.AmountKind) ([]decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !inv.HasMove() {
		return nil, nil
	}
	move, ok := r.s.moves[*inv.MoveID]
	if !ok {
		return nil, nil
	}
	sign := decimal.NewFromInt(1)
	if inv.Type != entity.InvoiceTypeOut {
		sign = sign.Neg()
	}
	lineAccounts := map[string]bool{}
	for _, l := range inv.Lines {
		lineAccounts[l.AccountID] = true
	}
	taxAccounts := map[string]bool{}
	for _, t := range inv.Taxes {
		taxAccounts[t.AccountID] = true
	}
	var out []decimal.Decimal
	for _, ml := range move.Lines {
		switch kind {
		case entity.AmountTotal:
			if ml.AccountID == inv.AccountID {
				out = append(out, sign.Mul(ml.Debit.Sub(ml.Credit)))
			} else {
				out = append(out, decimal.Zero)
			}
		case entity.AmountUntaxed:
			if ml.AccountID != inv.AccountID && lineAccounts[ml.AccountID] && !taxAccounts[ml.AccountID] {
				out = append(out, sign.Mul(ml.Credit.Sub(ml.Debit)))
			}
		case entity.AmountTax:
			if ml.AccountID != inv.AccountID && taxAccounts[ml.AccountID] {
				out = append(out, sign.Mul(ml.Credit.Sub(ml.Debit)))
			}
		}
	}
	return out, nil
}

// memTx ejecuta fn sobre el store y deshace los cambios si fn falla.
type memTx struct {
	s    *memStore
	runs int
}

func (t *memTx) RunCompanyCurrency(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	moveRepo repository.MoveRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	t.runs++
	snap := t.s.snapshot()
	if err := fn(memInvoices{t.s}, memMoves{t.s}, memLedger{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
