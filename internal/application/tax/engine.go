package tax

import (
	"github.com/shopspring/decimal"

	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
)

// Totals son los agregados del carrito. Los montos conservan la precisión
// completa de decimal; el redondeo es responsabilidad de la capa de
// presentación.
type Totals struct {
	Untaxed       decimal.Decimal
	Tax           decimal.Decimal
	Grand         decimal.Decimal
	TotalQuantity int
}

// LineTax calcula el impuesto de una línea según los impuestos asignados.
// percent: (cantidad × precio) × amount / 100. fixed: amount × cantidad.
// Ids no presentes en el catálogo aportan cero (tolerancia a refresh
// pendiente); el resultado es determinista para un mismo snapshot.
func LineTax(line entity.CartLine, taxIDs []string, catalog []entity.Tax) decimal.Decimal {
	if len(taxIDs) == 0 {
		return decimal.Zero
	}
	byID := make(map[string]entity.Tax, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}
	qty := decimal.NewFromInt(int64(line.Quantity))
	total := decimal.Zero
	for _, id := range taxIDs {
		t, ok := byID[id]
		if !ok {
			continue
		}
		switch t.AmountType {
		case entity.TaxAmountTypePercent:
			total = total.Add(line.Subtotal().Mul(t.Amount).Div(decimal.NewFromInt(100)))
		case entity.TaxAmountTypeFixed:
			total = total.Add(t.Amount.Mul(qty))
		}
	}
	return total
}

// CartTotals agrega el carrito completo: untaxed = Σ precio×cantidad,
// tax = Σ LineTax, grand = untaxed + tax.
func CartTotals(lines []entity.CartLine, catalog []entity.Tax, assignments AssignmentSet) Totals {
	totals := Totals{Untaxed: decimal.Zero, Tax: decimal.Zero, Grand: decimal.Zero}
	for _, line := range lines {
		totals.Untaxed = totals.Untaxed.Add(line.Subtotal())
		totals.Tax = totals.Tax.Add(LineTax(line, assignments.AssignedTo(line.ProductID), catalog))
		totals.TotalQuantity += line.Quantity
	}
	totals.Grand = totals.Untaxed.Add(totals.Tax)
	return totals
}
