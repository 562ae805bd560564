// Package pdf genera el resumen en doble moneda de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de factura + N°  │  Estado + monedas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LÍNEAS: Descripción | Cant | P.Unit | Monto | Monto empresa │
//	│  IMPUESTOS: Descripción | Base | Monto | Base/Monto empresa  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: moneda factura │ moneda empresa                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/company-currency-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa companycurrency.SummaryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateCompanyAmountsPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateCompanyAmountsPDF(_ context.Context, a *dto.CompanyAmountsResponse) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("pdf: resumen vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Montos en moneda de la empresa", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(a))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("LÍNEAS"))
	m.AddRows(linesHeaderRow(a))
	m.AddRows(linesRows(a)...)

	if len(a.Taxes) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionRow("IMPUESTOS"))
		m.AddRows(taxesHeaderRow(a))
		m.AddRows(taxesRows(a)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(a))

	if !a.Cached {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Montos calculados desde contabilidad o a la tasa vigente; la factura aún no tiene snapshot.", props.Text{
				Size: 7, Color: colorGray, Top: 2,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo + número (izq) y estado + monedas (der).
func headerRow(a *dto.CompanyAmountsResponse) core.Row {
	title := "FACTURA DE CLIENTE"
	if a.Type == "in" {
		title = "FACTURA DE PROVEEDOR"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(a.Number, a.InvoiceID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Estado: "+strings.ToUpper(a.State), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Moneda factura: %s", a.Currency), props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Moneda empresa: %s", a.CompanyCurrency), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func sectionRow(label string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cellCol(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func linesHeaderRow(a *dto.CompanyAmountsResponse) core.Row {
	return row.New(7).Add(
		headerCol("Descripción", 4, align.Left),
		headerCol("Cant.", 1, align.Center),
		headerCol("Precio Unit.", 2, align.Right),
		headerCol("Monto "+a.Currency, 2, align.Right),
		headerCol("Monto "+a.CompanyCurrency, 3, align.Right),
	)
}

func linesRows(a *dto.CompanyAmountsResponse) []core.Row {
	rows := make([]core.Row, 0, len(a.Lines))
	for _, l := range a.Lines {
		rows = append(rows, row.New(6).Add(
			cellCol(nonEmpty(l.Description, "—"), 4, align.Left),
			cellCol(l.Quantity.String(), 1, align.Center),
			cellCol(formatMoney(l.UnitPrice), 2, align.Right),
			cellCol(formatMoney(l.Amount), 2, align.Right),
			cellCol(formatMoney(l.CompanyAmount), 3, align.Right),
		))
	}
	return rows
}

func taxesHeaderRow(a *dto.CompanyAmountsResponse) core.Row {
	return row.New(7).Add(
		headerCol("Descripción", 4, align.Left),
		headerCol("Base", 2, align.Right),
		headerCol("Monto", 2, align.Right),
		headerCol("Base "+a.CompanyCurrency, 2, align.Right),
		headerCol("Monto "+a.CompanyCurrency, 2, align.Right),
	)
}

func taxesRows(a *dto.CompanyAmountsResponse) []core.Row {
	rows := make([]core.Row, 0, len(a.Taxes))
	for _, t := range a.Taxes {
		rows = append(rows, row.New(6).Add(
			cellCol(nonEmpty(t.Description, "—"), 4, align.Left),
			cellCol(formatMoney(t.Base), 2, align.Right),
			cellCol(formatMoney(t.Amount), 2, align.Right),
			cellCol(formatMoney(t.CompanyBase), 2, align.Right),
			cellCol(formatMoney(t.CompanyAmount), 2, align.Right),
		))
	}
	return rows
}

// totalsRow: totales en moneda de la factura y, al lado, en moneda de la empresa.
func totalsRow(a *dto.CompanyAmountsResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Base imponible:"),
			text.New("Impuestos:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12}),
		),
		col.New(3).Add(
			value(a.Currency+" "+formatMoney(a.UntaxedAmount), 0),
			value(a.Currency+" "+formatMoney(a.TaxAmount), 6),
			value(a.Currency+" "+formatMoney(a.TotalAmount), 12),
		),
		col.New(3).Add(
			value(a.CompanyCurrency+" "+formatMoney(a.CompanyUntaxedAmount), 0),
			value(a.CompanyCurrency+" "+formatMoney(a.CompanyTaxAmount), 6),
			value(a.CompanyCurrency+" "+formatMoney(a.CompanyTotalAmount), 12),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney separa miles con punto y deja dos decimales con coma.
// Ej: 1234567.5 → "1.234.567,50", -25 → "-25,00"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
