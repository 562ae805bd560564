package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// ConversionService convierte montos entre monedas con la tasa vigente a una fecha.
type ConversionService struct {
	rates repository.CurrencyRepository
}

// NewConversionService construye el servicio.
func NewConversionService(rates repository.CurrencyRepository) *ConversionService {
	return &ConversionService{rates: rates}
}

// Convert convierte amount de from a to con las tasas vigentes en asOf.
// Con round=true el resultado se redondea según la moneda destino.
func (s *ConversionService) Convert(ctx context.Context, amount decimal.Decimal, from, to *entity.Currency, asOf time.Time, round bool) (decimal.Decimal, error) {
	if from == nil || to == nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if from.Equal(to) {
		if round {
			return to.Round(amount), nil
		}
		return amount, nil
	}
	fromRate, err := s.rateAt(ctx, from, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := s.rateAt(ctx, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	value := amount.Mul(toRate).Div(fromRate)
	if round {
		return to.Round(value), nil
	}
	return value, nil
}

func (s *ConversionService) rateAt(ctx context.Context, c *entity.Currency, asOf time.Time) (decimal.Decimal, error) {
	rate, err := s.rates.RateAt(ctx, c.ID, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("tasa %s: %w", c.Code, err)
	}
	if rate == nil || rate.Rate.IsZero() {
		return decimal.Zero, fmt.Errorf("%s al %s: %w", c.Code, asOf.Format("2006-01-02"), domain.ErrRateNotFound)
	}
	return rate.Rate, nil
}
