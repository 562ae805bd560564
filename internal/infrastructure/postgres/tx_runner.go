package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/company-currency-api/internal/application/companycurrency"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// Ensure TxRunner implements companycurrency.TxRunner.
var _ companycurrency.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCompanyCurrency inicia una transacción, ejecuta fn con los repos de facturas,
// asientos y consultas contables atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunCompanyCurrency(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	moveRepo repository.MoveRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	moveRepo := NewMoveRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)

	if err := fn(invoiceRepo, moveRepo, ledgerRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
