package companycurrency

import (
	"context"
	"fmt"
	"strings"
)

// PDFUseCase genera el resumen PDF con los montos de la factura en su moneda y en
// la moneda de la empresa.
type PDFUseCase struct {
	amounts   AmountsReader
	generator SummaryPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(amounts AmountsReader, generator SummaryPDFGenerator) *PDFUseCase {
	return &PDFUseCase{amounts: amounts, generator: generator}
}

// DownloadSummaryPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
// Los errores de lectura (ErrNotFound, ErrForbidden, ErrRateNotFound) se propagan sin cambio.
func (uc *PDFUseCase) DownloadSummaryPDF(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	amounts, err := uc.amounts.GetAmounts(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateCompanyAmountsPDF(ctx, amounts)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar resumen: %w", err)
	}
	return pdfBytes, summaryFilename(amounts.Number, amounts.InvoiceID), nil
}

func summaryFilename(number, invoiceID string) string {
	name := strings.TrimSpace(number)
	if name == "" {
		name = invoiceID
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ' ':
			return '-'
		}
		return r
	}, name)
	return "factura-" + name + "-moneda-empresa.pdf"
}
