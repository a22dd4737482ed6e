// Package pdf implementa la generación del recibo de venta POS (ticket del
// carrito): cliente, líneas con su impuesto y bloque de totales.
package pdf

import (
	"fmt"
	"strconv"

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

	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 19, Green: 22, Blue: 197}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptData insumos del recibo: snapshot del carrito con su catálogo y
// asignaciones vigentes.
type ReceiptData struct {
	CustomerName string
	Currency     string
	Decimals     int32
	Lines        []entity.CartLine
	Catalog      []entity.Tax
	Assignments  tax.AssignmentSet
	Totals       tax.Totals
}

// ReceiptGenerator genera el PDF del recibo usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(data ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.CustomerName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(data) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del recibo y nombre del cliente.
func headerRow(customerName string) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Cliente: "+customerName, props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Impuesto", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableLineRows: una fila por línea del carrito con su impuesto calculado.
func tableLineRows(data ReceiptData) []core.Row {
	result := make([]core.Row, 0, len(data.Lines))
	for _, l := range data.Lines {
		lineTax := tax.LineTax(l, data.Assignments.AssignedTo(l.ProductID), data.Catalog)
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				money(l.UnitPrice, data.Decimals),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				money(lineTax, data.Decimals),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				money(l.Subtotal(), data.Decimals),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(data ReceiptData) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	currency := data.Currency
	return row.New(22).Add(
		col.New(4),
		col.New(4).Add(
			label("Monto sin impuestos:"),
			label("Impuestos:"),
			grand("TOTAL:"),
		),
		col.New(4).Add(
			value(money(data.Totals.Untaxed, data.Decimals)+" "+currency),
			value(money(data.Totals.Tax, data.Decimals)+" "+currency),
			grand(money(data.Totals.Grand, data.Decimals)+" "+currency),
		),
	)
}

func money(d decimal.Decimal, decimals int32) string {
	return d.StringFixed(decimals)
}
