package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// GetByID obtiene una empresa con su moneda contable.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `
		SELECT c.id, c.name, c.currency_id, c.created_at, c.updated_at,
		       cur.code, cur.name, cur.digits, cur.rounding
		FROM companies c
		JOIN currencies cur ON cur.id = c.currency_id
		WHERE c.id = $1`
	var c entity.Company
	cur := &entity.Currency{}
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.CurrencyID, &c.CreatedAt, &c.UpdatedAt,
		&cur.Code, &cur.Name, &cur.Digits, &cur.Rounding,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	cur.ID = c.CurrencyID
	c.Currency = cur
	return &c, nil
}
