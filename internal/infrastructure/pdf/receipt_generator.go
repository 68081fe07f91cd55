// Package pdf genera el recibo de una venta en PDF.
//
// Layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Tienda                       │  RECIBO DE VENTA / fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Cant | Producto | P.Unit | Subtotal                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Subtotal / Descuento / TOTAL                                │
//	│  QR con el ID de la venta (para devoluciones)                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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

	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator implementa sales.ReceiptGenerator con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateSaleReceipt arma el recibo y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateSaleReceipt(_ context.Context, sale *entity.Sale, storeName string) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta", true).
		WithAuthor(storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, storeName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(sale.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(sale *entity.Sale, storeName string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Venta #"+sale.ID, props.Text{Size: 7, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(statusLabel(sale.Status), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []*entity.SaleItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if it.ReturnedQuantity > 0 {
			name += fmt.Sprintf(" (devueltas %d)", it.ReturnedQuantity)
		}
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(it.SalePrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(it.LineTotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string, size float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: c})
	}
	value := func(s string, size float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: size, Align: align.Right, Right: 1, Color: c})
	}
	discount := decimal.Zero
	if sale.DiscountApplied {
		discount = sale.DiscountAmount
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 9, nil),
			label("Descuento:", 9, nil),
			label("TOTAL:", 10, colorPrimary),
		),
		col.New(3).Add(
			value(formatMoney(sale.SubTotal()), 9, nil),
			value("-"+formatMoney(discount), 9, nil),
			value(formatMoney(sale.TotalAmount), 10, colorPrimary),
		),
	)
}

func footerRow(sale *entity.Sale) core.Row {
	notes := sale.Notes
	if notes == "" {
		notes = "Gracias por su compra."
	}
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(notes, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Presente este código para devoluciones.", props.Text{Size: 7, Top: 14, Left: 3, Color: colorGray}),
		),
	)
}

func statusLabel(status string) string {
	switch status {
	case entity.SaleStatusPartiallyReturned:
		return "Devolución parcial"
	case entity.SaleStatusFullyReturned:
		return "Devuelta"
	default:
		return "Completada"
	}
}

// formatMoney "$1.234.567,50": puntos de miles y coma decimal.
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
