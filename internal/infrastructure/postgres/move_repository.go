package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

var _ repository.MoveRepository = (*MoveRepo)(nil)

// MoveRepo asientos contables y sus apuntes.
type MoveRepo struct {
	q Querier
}

// NewMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMoveRepository(q Querier) *MoveRepo {
	return &MoveRepo{q: q}
}

// Create persiste el asiento con todos sus apuntes.
func (r *MoveRepo) Create(ctx context.Context, move *entity.Move) error {
	if !move.Balanced() {
		return fmt.Errorf("asiento %s descuadrado", move.ID)
	}
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO moves (id, company_id, invoice_id, date, created_at) VALUES ($1, $2, $3, $4, $5)`,
		move.ID, move.CompanyID, nullIfEmpty(move.InvoiceID), move.Date, move.CreatedAt)
	for _, l := range move.Lines {
		batch.Queue(`INSERT INTO move_lines (id, move_id, account_id, debit, credit) VALUES ($1, $2, $3, $4, $5)`,
			l.ID, move.ID, l.AccountID, l.Debit, l.Credit)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert move: %w", err)
		}
	}
	return nil
}

// Delete elimina el asiento; los apuntes caen en cascada.
func (r *MoveRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM moves WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete move: %w", err)
	}
	return nil
}
