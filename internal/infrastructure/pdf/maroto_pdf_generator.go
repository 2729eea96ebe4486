// Package pdf genera la hoja de surtido / remisión de un pedido.
//
// Layout de la página carta:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa              │  N° Pedido + Fecha + Estado  │
//	│  CLIENTE: Nombre + Notas                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Sol. | Surt. | Fact. | P.U. | Subt. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Estimado / Facturado                               │
//	│  FOOTER: QR del pedido + firmas de surtido y recepción       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

var _ ports.OrderPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.OrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
	loc     *time.Location
}

// NewMarotoPDFGenerator construye el generador. company aparece en el
// encabezado; loc define la zona de la fecha impresa.
func NewMarotoPDFGenerator(company string, loc *time.Location) *MarotoPDFGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoPDFGenerator{company: company, loc: loc}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOrderPDF(_ context.Context, v aggregation.OrderView) ([]byte, error) {
	if v.Order == nil {
		return nil, fmt.Errorf("pdf: pedido vacío")
	}
	number := orderflow.ShortNumber(v.Order.OrderNumber, v.Order.ID)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+number, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(v, number))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(v.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(v))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(v, number))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y N° pedido + fecha + estado (der).
func (g *MarotoPDFGenerator) headerRow(v aggregation.OrderView, number string) core.Row {
	fecha := v.Order.CreatedDate.In(g.loc).Format(aggregation.ExportDateLayout)
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.company, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Hoja de surtido / remisión", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Estado: "+v.Order.Status.Label(), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

// clientRow: cliente y notas del pedido.
func clientRow(v aggregation.OrderView) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(v.Order.ClientName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Notas: "+nonEmpty(v.Order.Notes, "-"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Sol.", 1, align.Center),
		h("Surt.", 1, align.Center),
		h("Fact.", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea. Los faltantes se marcan en rojo.
func tableDetailRows(lines []aggregation.LineView) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, lv := range lines {
		l := lv.Line
		qtyColor := colorGray
		if lv.Shortage {
			qtyColor = colorAlert
		}
		unit := string(l.Unit)
		if lv.Measured && lv.FinalMeasurementUnit != "" {
			unit = lv.FinalMeasurementUnit
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.ProductSKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.QuantityRequested.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(lv.Fulfilled.String(), props.Text{Size: 8, Align: align.Center, Top: 1, Color: qtyColor})),
			col.New(1).Add(text.New(lv.Billed.String()+" "+unit, props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(lv.BilledSubtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: estimado al crear y total con las cantidades facturables.
func totalsRow(v aggregation.OrderView) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 6,
		})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Total estimado:"), grand("TOTAL:", 2)),
		col.New(3).Add(value(formatMoney(v.Order.TotalEstimated)), grand(formatMoney(v.BilledTotal), 1)),
	)
}

// footerRow: QR con el número de pedido y líneas de firma.
func footerRow(v aggregation.OrderView, number string) core.Row {
	legend := "Cantidades sujetas a revisión del vendedor."
	if v.Order.TotalFinal.Valid {
		legend = "Total final: " + formatMoney(v.Order.TotalFinal.Decimal)
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(legend, props.Text{Size: 8, Top: 2, Left: 3, Color: colorGray}),
			text.New("Surtió: ______________________", props.Text{Size: 9, Top: 18, Left: 3}),
			text.New("Recibió: _____________________", props.Text{Size: 9, Top: 30, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney "$" con comas de miles y dos decimales.
// Ej: 25000 → "$25,000.00", -1234.5 → "-$1,234.50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := "$" + string(buf) + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
