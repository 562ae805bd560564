package repository

import (
	"context"
	"time"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

// CurrencyRepository puerto de lectura de monedas y tasas de cambio.
type CurrencyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Currency, error)
	// RateAt devuelve la última tasa con fecha <= date; (nil, nil) si no hay ninguna.
	RateAt(ctx context.Context, currencyID string, date time.Time) (*entity.CurrencyRate, error)
}
