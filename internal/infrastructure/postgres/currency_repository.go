package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

var _ repository.CurrencyRepository = (*CurrencyRepo)(nil)

// CurrencyRepo monedas y tasas de cambio.
type CurrencyRepo struct {
	q Querier
}

// NewCurrencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCurrencyRepository(q Querier) *CurrencyRepo {
	return &CurrencyRepo{q: q}
}

// GetByID obtiene una moneda por ID.
func (r *CurrencyRepo) GetByID(ctx context.Context, id string) (*entity.Currency, error) {
	query := `SELECT id, code, name, digits, rounding FROM currencies WHERE id = $1`
	var c entity.Currency
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Code, &c.Name, &c.Digits, &c.Rounding)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get currency: %w", err)
	}
	return &c, nil
}

// RateAt devuelve la tasa más reciente con fecha menor o igual a date.
func (r *CurrencyRepo) RateAt(ctx context.Context, currencyID string, date time.Time) (*entity.CurrencyRate, error) {
	query := `
		SELECT id, currency_id, date, rate
		FROM currency_rates
		WHERE currency_id = $1 AND date <= $2
		ORDER BY date DESC
		LIMIT 1`
	var rate entity.CurrencyRate
	err := r.q.QueryRow(ctx, query, currencyID, date).Scan(&rate.ID, &rate.CurrencyID, &rate.Date, &rate.Rate)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get currency rate: %w", err)
	}
	return &rate, nil
}
