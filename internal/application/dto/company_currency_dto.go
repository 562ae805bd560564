package dto

import "github.com/shopspring/decimal"

// CompanyAmountsResponse factura con sus montos en moneda de la factura y de la empresa,
// para GET /api/invoices/:id/company-amounts.
type CompanyAmountsResponse struct {
	InvoiceID           string `json:"invoice_id"`
	Number              string `json:"number,omitempty"`
	Type                string `json:"type"`
	State               string `json:"state"`
	Currency            string `json:"currency"`
	CompanyCurrency     string `json:"company_currency"`
	DifferentCurrencies bool   `json:"different_currencies"`
	// ShowCompanyAmounts indica a la capa de presentación si mostrar los montos en moneda de la empresa.
	ShowCompanyAmounts bool `json:"show_company_amounts"`
	Cached             bool `json:"cached"` // los tres totales vienen del snapshot

	UntaxedAmount        decimal.Decimal `json:"untaxed_amount"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	CompanyUntaxedAmount decimal.Decimal `json:"company_untaxed_amount"`
	CompanyTaxAmount     decimal.Decimal `json:"company_tax_amount"`
	CompanyTotalAmount   decimal.Decimal `json:"company_total_amount"`

	Lines []LineCompanyAmountResponse `json:"lines"`
	Taxes []TaxCompanyAmountResponse  `json:"taxes"`
}

// LineCompanyAmountResponse línea de factura con su monto en moneda de la empresa.
type LineCompanyAmountResponse struct {
	ID              string          `json:"id"`
	InvoiceID       string          `json:"invoice_id,omitempty"`
	Description     string          `json:"description,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Amount          decimal.Decimal `json:"amount"`
	CompanyCurrency string          `json:"company_currency"`
	CompanyAmount   decimal.Decimal `json:"company_amount"`
}

// TaxCompanyAmountResponse impuesto con base y monto en moneda de la empresa.
type TaxCompanyAmountResponse struct {
	ID            string          `json:"id"`
	Description   string          `json:"description,omitempty"`
	Base          decimal.Decimal `json:"base"`
	Amount        decimal.Decimal `json:"amount"`
	CompanyBase   decimal.Decimal `json:"company_base"`
	CompanyAmount decimal.Decimal `json:"company_amount"`
}

// InvoiceStateResponse respuesta de las transiciones post/draft/validate.
type InvoiceStateResponse struct {
	InvoiceID string `json:"invoice_id"`
	State     string `json:"state"`
	MoveID    string `json:"move_id,omitempty"`
}

// CopyInvoiceResponse respuesta de POST /api/invoices/:id/copy.
type CopyInvoiceResponse struct {
	SourceID  string `json:"source_id"`
	InvoiceID string `json:"invoice_id"`
}
