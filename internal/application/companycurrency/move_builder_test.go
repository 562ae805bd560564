package companycurrency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/company-currency-api/internal/application/currency"
	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

func sideByAccount(m *entity.Move) map[string][2]string {
	out := map[string][2]string{}
	for _, l := range m.Lines {
		cur := out[l.AccountID]
		debit, credit := d("0"), d("0")
		if cur[0] != "" {
			debit, credit = d(cur[0]), d(cur[1])
		}
		out[l.AccountID] = [2]string{debit.Add(l.Debit).String(), credit.Add(l.Credit).String()}
	}
	return out
}

func TestBuildMove_FacturaCliente(t *testing.T) {
	b := NewInvoiceMoveBuilder(currency.NewConversionService(defaultRates()), fixedToday)
	inv := newInvoice("i1", entity.InvoiceTypeOut, eur)

	m, err := b.BuildMove(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, m.Balanced())
	assert.Equal(t, "i1", m.InvoiceID)
	assert.Equal(t, invoiceDay, m.Date)

	sides := sideByAccount(m)
	assert.Equal(t, [2]string{"0", "110"}, sides["acc-revenue"])
	assert.Equal(t, [2]string{"0", "10"}, sides["acc-tax"])
	assert.Equal(t, [2]string{"120", "0"}, sides["acc-receivable"])
}

func TestBuildMove_FacturaProveedor(t *testing.T) {
	b := NewInvoiceMoveBuilder(currency.NewConversionService(defaultRates()), fixedToday)
	inv := newInvoice("i1", entity.InvoiceTypeIn, usd)

	m, err := b.BuildMove(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, m.Balanced())

	sides := sideByAccount(m)
	assert.Equal(t, [2]string{"220", "0"}, sides["acc-revenue"])
	assert.Equal(t, [2]string{"20", "0"}, sides["acc-tax"])
	assert.Equal(t, [2]string{"0", "240"}, sides["acc-receivable"])
}

func TestBuildMove_MontoNegativoCambiaDeLado(t *testing.T) {
	b := NewInvoiceMoveBuilder(currency.NewConversionService(defaultRates()), fixedToday)
	inv := newInvoice("i1", entity.InvoiceTypeOut, usd)
	inv.Lines[1].UnitPrice = d("-20")
	inv.Lines[1].AccountID = "acc-discount"

	m, err := b.BuildMove(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, m.Balanced())
	for _, l := range m.Lines {
		assert.False(t, l.Debit.IsNegative() || l.Credit.IsNegative(), "sin montos negativos")
	}
	assert.Equal(t, [2]string{"20", "0"}, sideByAccount(m)["acc-discount"])
}

func TestBuildMove_SinCuenta(t *testing.T) {
	b := NewInvoiceMoveBuilder(currency.NewConversionService(defaultRates()), fixedToday)
	inv := newInvoice("i1", entity.InvoiceTypeOut, usd)
	inv.AccountID = ""

	_, err := b.BuildMove(context.Background(), inv)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
