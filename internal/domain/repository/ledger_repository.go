package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

// LedgerRepository consultas de agregación sobre los apuntes contabilizados de una factura.
type LedgerRepository interface {
	// AggregateCompanyAmount devuelve un valor por apunte del asiento de la factura que
	// aporta al total indicado, en moneda de la empresa y sin redondear.
	AggregateCompanyAmount(ctx context.Context, invoice *entity.Invoice, kind entity.AmountKind) ([]decimal.Decimal, error)
}
