package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/company-currency-api/internal/application/currency"
	"github.com/jhoicas/company-currency-api/internal/application/dto"
	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

var (
	usd = &entity.Currency{ID: "usd", Code: "USD", Name: "Dólar", Digits: 2, Rounding: decimal.RequireFromString("0.01")}
	eur = &entity.Currency{ID: "eur", Code: "EUR", Name: "Euro", Digits: 2, Rounding: decimal.RequireFromString("0.01")}
)

type fakeCompanies map[string]*entity.Company

func (f fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return f[id], nil
}

type fakeCurrencies struct {
	rates map[string]string
	asked []time.Time
}

func (f *fakeCurrencies) GetByID(_ context.Context, id string) (*entity.Currency, error) {
	switch id {
	case usd.ID:
		return usd, nil
	case eur.ID:
		return eur, nil
	}
	return nil, nil
}

func (f *fakeCurrencies) RateAt(_ context.Context, id string, date time.Time) (*entity.CurrencyRate, error) {
	f.asked = append(f.asked, date)
	v, ok := f.rates[id]
	if !ok {
		return nil, nil
	}
	return &entity.CurrencyRate{CurrencyID: id, Date: date, Rate: decimal.RequireFromString(v)}, nil
}

func newCompanyUC() (*CompanyUseCase, *fakeCurrencies) {
	companies := fakeCompanies{"c1": {ID: "c1", Name: "ACME", CurrencyID: usd.ID, Currency: usd}}
	currencies := &fakeCurrencies{rates: map[string]string{"usd": "1", "eur": "2"}}
	uc := NewCompanyUseCase(companies, currencies, currency.NewConversionService(currencies))
	uc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	return uc, currencies
}

func TestCompanyUseCase_GetByID(t *testing.T) {
	uc, _ := newCompanyUC()
	ctx := context.Background()

	out, err := uc.GetByID(ctx, "c1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "ACME", out.Name)
	assert.Equal(t, "USD", out.Currency.Code)
	assert.Equal(t, int32(2), out.Currency.Digits)

	_, err = uc.GetByID(ctx, "c1", "c2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(ctx, "c9", "c9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyUseCase_Convert(t *testing.T) {
	uc, currencies := newCompanyUC()
	ctx := context.Background()

	out, err := uc.Convert(ctx, "c1", dto.ConvertRequest{From: "eur", Amount: "200", Date: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", out.From)
	assert.Equal(t, "USD", out.To, "sin destino se usa la moneda de la empresa")
	assert.Equal(t, "2024-03-01", out.Date)
	assert.True(t, decimal.RequireFromString("100").Equal(out.Result), out.Result.String())
	for _, asked := range currencies.asked {
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), asked)
	}

	noRound := false
	out, err = uc.Convert(ctx, "c1", dto.ConvertRequest{From: "eur", To: "usd", Amount: "0.01", Round: &noRound})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", out.Date)
	assert.True(t, decimal.RequireFromString("0.005").Equal(out.Result), out.Result.String())
}

func TestCompanyUseCase_Convert_Errores(t *testing.T) {
	uc, _ := newCompanyUC()
	ctx := context.Background()

	_, err := uc.Convert(ctx, "c1", dto.ConvertRequest{From: "eur", Amount: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Convert(ctx, "c1", dto.ConvertRequest{From: "eur", Amount: "1", Date: "01/03/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Convert(ctx, "c1", dto.ConvertRequest{Amount: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Convert(ctx, "c1", dto.ConvertRequest{From: "jpy", Amount: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
