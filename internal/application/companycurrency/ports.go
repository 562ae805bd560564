package companycurrency

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/application/dto"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// Converter servicio de conversión de monedas (tasa + redondeo). La fecha de la tasa
// viaja como parámetro explícito.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to *entity.Currency, asOf time.Time, round bool) (decimal.Decimal, error)
}

// TxRunner ejecuta una función dentro de una transacción con los repos de facturación
// y contabilidad atados a ella.
type TxRunner interface {
	RunCompanyCurrency(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		moveRepo repository.MoveRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// MoveBuilder genera el asiento de una factura al contabilizarla.
type MoveBuilder interface {
	BuildMove(ctx context.Context, invoice *entity.Invoice) (*entity.Move, error)
}

// SummaryPDFGenerator genera el resumen en doble moneda de una factura.
type SummaryPDFGenerator interface {
	GenerateCompanyAmountsPDF(ctx context.Context, amounts *dto.CompanyAmountsResponse) ([]byte, error)
}

// AmountsReader lectura de montos en moneda de la empresa (implementado por LifecycleUseCase).
type AmountsReader interface {
	GetAmounts(ctx context.Context, companyID, invoiceID string) (*dto.CompanyAmountsResponse, error)
}
