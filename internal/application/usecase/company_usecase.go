package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/application/dto"
	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Converter conversión entre monedas a una fecha.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to *entity.Currency, asOf time.Time, round bool) (decimal.Decimal, error)
}

// CompanyUseCase consulta de la empresa, su moneda contable y conversiones puntuales.
type CompanyUseCase struct {
	companies  repository.CompanyRepository
	currencies repository.CurrencyRepository
	converter  Converter
	now        func() time.Time
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(companies repository.CompanyRepository, currencies repository.CurrencyRepository, converter Converter) *CompanyUseCase {
	return &CompanyUseCase{companies: companies, currencies: currencies, converter: converter, now: time.Now}
}

// GetByID obtiene la empresa. Solo se permite consultar la empresa del token.
func (uc *CompanyUseCase) GetByID(ctx context.Context, callerCompanyID, id string) (*dto.CompanyResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if id != callerCompanyID {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// Convert convierte un monto entre dos monedas a la fecha pedida.
func (uc *CompanyUseCase) Convert(ctx context.Context, callerCompanyID string, in dto.ConvertRequest) (*dto.ConvertResponse, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", in.Amount, domain.ErrInvalidInput)
	}
	asOf := uc.now()
	if in.Date != "" {
		if asOf, err = time.Parse(dateLayout, in.Date); err != nil {
			return nil, fmt.Errorf("date %q: %w", in.Date, domain.ErrInvalidInput)
		}
	}
	from, err := uc.currency(ctx, in.From)
	if err != nil {
		return nil, err
	}
	var to *entity.Currency
	if in.To == "" {
		company, err := uc.companies.GetByID(ctx, callerCompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		to = company.Currency
	} else if to, err = uc.currency(ctx, in.To); err != nil {
		return nil, err
	}
	round := in.Round == nil || *in.Round
	result, err := uc.converter.Convert(ctx, amount, from, to, asOf, round)
	if err != nil {
		return nil, err
	}
	return &dto.ConvertResponse{
		From:   from.Code,
		To:     to.Code,
		Date:   asOf.Format(dateLayout),
		Amount: amount,
		Result: result,
	}, nil
}

func (uc *CompanyUseCase) currency(ctx context.Context, id string) (*entity.Currency, error) {
	if id == "" {
		return nil, fmt.Errorf("moneda requerida: %w", domain.ErrInvalidInput)
	}
	c, err := uc.currencies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("moneda %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	out := &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Currency != nil {
		out.Currency = dto.CurrencyResponse{
			ID:       c.Currency.ID,
			Code:     c.Currency.Code,
			Name:     c.Currency.Name,
			Digits:   c.Currency.Digits,
			Rounding: c.Currency.Rounding,
		}
	}
	return out
}
