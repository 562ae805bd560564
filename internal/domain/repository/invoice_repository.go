package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

// InvoiceCacheWrite par (facturas, valores) para escritura masiva de snapshots de cabecera.
// Un puntero nil escribe NULL.
type InvoiceCacheWrite struct {
	InvoiceIDs []string
	Untaxed    *decimal.Decimal
	Tax        *decimal.Decimal
	Total      *decimal.Decimal
}

// LineCacheWrite par (líneas, valor) para el snapshot de company_amount.
type LineCacheWrite struct {
	LineIDs       []string
	CompanyAmount *decimal.Decimal
}

// TaxCacheWrite par (impuestos, valores) para los snapshots de base y monto.
type TaxCacheWrite struct {
	TaxIDs        []string
	CompanyBase   *decimal.Decimal
	CompanyAmount *decimal.Decimal
}

// InvoiceRepository define el puerto de persistencia para facturas, líneas e impuestos.
type InvoiceRepository interface {
	// Create persiste cabecera, líneas e impuestos (usado al duplicar).
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID obtiene la factura con empresa, monedas, líneas e impuestos; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetLineByID obtiene una línea; si pertenece a una factura la carga completa en line.Invoice.
	GetLineByID(ctx context.Context, id string) (*entity.InvoiceLine, error)
	SetState(ctx context.Context, id string, state entity.InvoiceState) error
	SetMove(ctx context.Context, id string, moveID *string) error
	WriteCompanyCache(ctx context.Context, writes []InvoiceCacheWrite) error
	WriteLineCache(ctx context.Context, writes []LineCacheWrite) error
	WriteTaxCache(ctx context.Context, writes []TaxCacheWrite) error
}
