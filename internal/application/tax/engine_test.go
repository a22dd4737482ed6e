package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func line(productID, price string, qty int) entity.CartLine {
	return entity.CartLine{ProductID: productID, Name: productID, UnitPrice: dec(price), Quantity: qty}
}

var catalogoBase = []entity.Tax{
	{ID: "5", Name: "VAT 5%", AmountType: entity.TaxAmountTypePercent, Amount: dec("5")},
	{ID: "15", Name: "VAT 15%", AmountType: entity.TaxAmountTypePercent, Amount: dec("15")},
	{ID: "F", Name: "Eco fee", AmountType: entity.TaxAmountTypeFixed, Amount: dec("0.5")},
}

// Sin asignaciones el impuesto es cero y grand == untaxed.
func TestCartTotals_SinImpuestos(t *testing.T) {
	lines := []entity.CartLine{line("P1", "10", 2), line("P2", "3.5", 1)}

	totals := tax.CartTotals(lines, catalogoBase, nil)

	assert.True(t, totals.Untaxed.Equal(dec("23.5")), "untaxed = Σ precio×cantidad")
	assert.True(t, totals.Tax.IsZero(), "sin asignaciones no hay impuesto")
	assert.True(t, totals.Grand.Equal(totals.Untaxed))
	assert.Equal(t, 3, totals.TotalQuantity)
}

// Porcentual: (cantidad × precio) × amount / 100.
func TestCartTotals_PorcentualCincoPorCiento(t *testing.T) {
	lines := []entity.CartLine{line("P1", "10", 2)}
	assignments := tax.AssignmentSet{"P1": {"5"}}

	totals := tax.CartTotals(lines, catalogoBase, assignments)

	assert.True(t, totals.Untaxed.Equal(dec("20")))
	assert.True(t, totals.Tax.Equal(dec("1")), "5%% de 20 = 1")
	assert.True(t, totals.Grand.Equal(dec("21")))
}

// Fijo: amount × cantidad, independiente del precio.
func TestLineTax_MontoFijo(t *testing.T) {
	got := tax.LineTax(line("P1", "999", 3), []string{"F"}, catalogoBase)

	assert.True(t, got.Equal(dec("1.5")), "0.5 × 3 = 1.5")
}

// Varios impuestos sobre la misma línea se suman.
func TestLineTax_VariosImpuestos(t *testing.T) {
	got := tax.LineTax(line("P1", "10", 2), []string{"5", "F"}, catalogoBase)

	// 5% de 20 = 1, fijo 0.5 × 2 = 1 → 2
	assert.True(t, got.Equal(dec("2")))
}

// Ids no presentes en el catálogo aportan cero en vez de fallar.
func TestLineTax_IdDesconocidoAportaCero(t *testing.T) {
	got := tax.LineTax(line("P1", "10", 2), []string{"no-existe", "5"}, catalogoBase)

	assert.True(t, got.Equal(dec("1")), "solo el impuesto conocido aporta")
}

// Cantidad cero: subtotal e impuestos en cero, la línea sigue contando.
func TestCartTotals_CantidadCero(t *testing.T) {
	lines := []entity.CartLine{line("P1", "10", 0)}
	assignments := tax.AssignmentSet{"P1": {"5", "F"}}

	totals := tax.CartTotals(lines, catalogoBase, assignments)

	assert.True(t, totals.Untaxed.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.Equal(t, 0, totals.TotalQuantity)
}

// Agregar un impuesto nunca reduce el total.
func TestCartTotals_MonotoniaAlAsignar(t *testing.T) {
	lines := []entity.CartLine{line("P1", "10", 2), line("P2", "4", 5)}

	sin := tax.CartTotals(lines, catalogoBase, tax.AssignmentSet{"P1": {"5"}})
	con := tax.CartTotals(lines, catalogoBase, tax.AssignmentSet{"P1": {"5"}, "P2": {"15"}})

	assert.True(t, con.Grand.GreaterThanOrEqual(sin.Grand))
	assert.True(t, con.Untaxed.Equal(sin.Untaxed), "untaxed no depende de impuestos")
}

// El motor no redondea: la precisión completa de decimal se conserva.
func TestLineTax_SinRedondeo(t *testing.T) {
	got := tax.LineTax(line("P1", "3.333", 1), []string{"5"}, catalogoBase)

	assert.True(t, got.Equal(dec("0.16665")), "3.333 × 5 / 100 sin redondear")
}
