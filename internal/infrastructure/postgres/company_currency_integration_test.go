package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/company-currency-api/internal/application/companycurrency"
	"github.com/jhoicas/company-currency-api/internal/application/currency"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/infrastructure/postgres"
	"github.com/jhoicas/company-currency-api/pkg/config"
)

// Base de datos de pruebas dedicada: definir TEST_DATABASE_URL en .env o en el entorno.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL no definido: se omite la prueba de integración")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dbURL, MaxConns: 4})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, pool))
	t.Cleanup(pool.Close)
	return pool
}

type seeded struct {
	companyID string
	invoiceID string
	lineIDs   []string
	taxID     string
}

// seedEURInvoice crea USD (tasa 1), EUR (tasa 2), una empresa en USD y una factura en EUR
// con líneas 200 y 20 e impuesto 20.
func seedEURInvoice(t *testing.T, pool *pgxpool.Pool) seeded {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	usdID, eurID := "usd-"+suffix, "eur-"+suffix
	s := seeded{
		companyID: "c-" + suffix,
		invoiceID: "i-" + suffix,
		lineIDs:   []string{"l1-" + suffix, "l2-" + suffix},
		taxID:     "t-" + suffix,
	}
	rateDay := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	invoiceDay := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO currencies (id, code, name, digits, rounding) VALUES ($1, $2, 'Dólar', 2, 0.01)`, []any{usdID, "USD-" + suffix}},
		{`INSERT INTO currencies (id, code, name, digits, rounding) VALUES ($1, $2, 'Euro', 2, 0.01)`, []any{eurID, "EUR-" + suffix}},
		{`INSERT INTO currency_rates (id, currency_id, date, rate) VALUES ($1, $2, $3, 1)`, []any{"r1-" + suffix, usdID, rateDay}},
		{`INSERT INTO currency_rates (id, currency_id, date, rate) VALUES ($1, $2, $3, 2)`, []any{"r2-" + suffix, eurID, rateDay}},
		{`INSERT INTO companies (id, name, currency_id) VALUES ($1, 'ACME', $2)`, []any{s.companyID, usdID}},
		{`INSERT INTO invoices (id, number, company_id, type, state, currency_id, invoice_date, account_id)
		  VALUES ($1, 'F-1', $2, 'out', 'draft', $3, $4, 'acc-receivable')`, []any{s.invoiceID, s.companyID, eurID, invoiceDay}},
		{`INSERT INTO invoice_lines (id, invoice_id, account_id, description, quantity, unit_price)
		  VALUES ($1, $2, 'acc-revenue', 'Servicio', 2, 100)`, []any{s.lineIDs[0], s.invoiceID}},
		{`INSERT INTO invoice_lines (id, invoice_id, account_id, description, quantity, unit_price)
		  VALUES ($1, $2, 'acc-revenue', 'Envío', 1, 20)`, []any{s.lineIDs[1], s.invoiceID}},
		{`INSERT INTO invoice_taxes (id, invoice_id, account_id, description, base, amount)
		  VALUES ($1, $2, 'acc-tax', 'IVA 10%', 200, 20)`, []any{s.taxID, s.invoiceID}},
	}
	for _, st := range stmts {
		_, err := pool.Exec(ctx, st.sql, st.args...)
		require.NoError(t, err, st.sql)
	}
	return s
}

func newUseCase(pool *pgxpool.Pool) *companycurrency.LifecycleUseCase {
	conv := currency.NewConversionService(postgres.NewCurrencyRepository(pool))
	return companycurrency.NewLifecycleUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewInvoiceRepository(pool),
		postgres.NewLedgerRepository(pool),
		conv,
		companycurrency.NewInvoiceMoveBuilder(conv, time.Now),
		companycurrency.Config{SnapshotOnValidate: true},
		zerolog.Nop(),
	)
}

func eq(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString(want).Equal(*got), "want %s got %s", want, got)
}

func TestIntegration_PostDraftCopy(t *testing.T) {
	pool := setupTestDB(t)
	s := seedEURInvoice(t, pool)
	uc := newUseCase(pool)
	invoices := postgres.NewInvoiceRepository(pool)
	ctx := context.Background()

	// Antes de contabilizar: conversión a la fecha de la factura.
	amounts, err := uc.GetAmounts(ctx, s.companyID, s.invoiceID)
	require.NoError(t, err)
	assert.True(t, amounts.DifferentCurrencies)
	assert.True(t, decimal.RequireFromString("120").Equal(amounts.CompanyTotalAmount))

	posted, err := uc.Post(ctx, s.companyID, s.invoiceID)
	require.NoError(t, err)
	require.NotEmpty(t, posted.MoveID)

	inv, err := invoices.GetByID(ctx, s.invoiceID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	eq(t, "110", inv.CompanyUntaxedAmountCache)
	eq(t, "10", inv.CompanyTaxAmountCache)
	eq(t, "120", inv.CompanyTotalAmountCache)
	for _, l := range inv.Lines {
		require.NotNil(t, l.CompanyAmountCache, l.ID)
	}
	eq(t, "100", inv.Taxes[0].CompanyBaseCache)

	// Las consultas contables devuelven lo mismo que el snapshot.
	ledger := postgres.NewLedgerRepository(pool)
	for kind, want := range map[entity.AmountKind]string{
		entity.AmountUntaxed: "110", entity.AmountTax: "10", entity.AmountTotal: "120",
	} {
		rows, err := ledger.AggregateCompanyAmount(ctx, inv, kind)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, v := range rows {
			sum = sum.Add(v)
		}
		assert.True(t, decimal.RequireFromString(want).Equal(sum), "%s: %s", kind, sum)
	}

	// Idempotente.
	again, err := uc.Post(ctx, s.companyID, s.invoiceID)
	require.NoError(t, err)
	assert.Equal(t, posted.MoveID, again.MoveID)

	// Borrador: sin asiento ni snapshots, mismos valores por conversión.
	_, err = uc.Draft(ctx, s.companyID, s.invoiceID)
	require.NoError(t, err)
	inv, err = invoices.GetByID(ctx, s.invoiceID)
	require.NoError(t, err)
	assert.False(t, inv.HasMove())
	assert.Nil(t, inv.CompanyTotalAmountCache)
	for _, l := range inv.Lines {
		assert.Nil(t, l.CompanyAmountCache)
	}
	var moves int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM moves WHERE id = $1`, posted.MoveID).Scan(&moves))
	assert.Zero(t, moves)

	line, err := uc.GetLineAmount(ctx, s.companyID, s.lineIDs[0])
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100").Equal(line.CompanyAmount))

	// Copia sin snapshots.
	cp, err := uc.Copy(ctx, s.companyID, s.invoiceID)
	require.NoError(t, err)
	dup, err := invoices.GetByID(ctx, cp.InvoiceID)
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, entity.InvoiceStateDraft, dup.State)
	assert.Nil(t, dup.CompanyUntaxedAmountCache)
	assert.Len(t, dup.Lines, 2)
}

func TestIntegration_CuentaCompartidaCuentaComoImpuesto(t *testing.T) {
	pool := setupTestDB(t)
	s := seedEURInvoice(t, pool)
	ctx := context.Background()
	_, err := pool.Exec(ctx, `UPDATE invoice_lines SET account_id = 'acc-tax' WHERE id = $1`, s.lineIDs[1])
	require.NoError(t, err)

	uc := newUseCase(pool)
	_, err = uc.Post(ctx, s.companyID, s.invoiceID)
	require.NoError(t, err)

	inv, err := postgres.NewInvoiceRepository(pool).GetByID(ctx, s.invoiceID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	eq(t, "100", inv.CompanyUntaxedAmountCache)
	eq(t, "20", inv.CompanyTaxAmountCache)
	eq(t, "120", inv.CompanyTotalAmountCache)

	ledger := postgres.NewLedgerRepository(pool)
	sum := func(kind entity.AmountKind) decimal.Decimal {
		rows, err := ledger.AggregateCompanyAmount(ctx, inv, kind)
		require.NoError(t, err)
		total := decimal.Zero
		for _, v := range rows {
			total = total.Add(v)
		}
		return total
	}
	assert.True(t, sum(entity.AmountTotal).Equal(sum(entity.AmountUntaxed).Add(sum(entity.AmountTax))))
}

func TestIntegration_RateAt(t *testing.T) {
	pool := setupTestDB(t)
	seedEURInvoice(t, pool)
	repo := postgres.NewCurrencyRepository(pool)

	rate, err := repo.RateAt(context.Background(), "sin-moneda", time.Now())
	require.NoError(t, err)
	assert.Nil(t, rate, "sin tasas devuelve (nil, nil)")
}
