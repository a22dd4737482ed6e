package entity

import "github.com/shopspring/decimal"

// Tipos de monto de un impuesto (amount_type del backend).
const (
	TaxAmountTypePercent = "percent" // porcentaje sobre cantidad × precio
	TaxAmountTypeFixed   = "fixed"   // monto fijo por unidad
)

// Tax es una definición de impuesto del catálogo del backend de ventas.
// Snapshot inmutable: se refresca completo, nunca se muta localmente.
type Tax struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	AmountType string          `json:"amount_type"`
	Amount     decimal.Decimal `json:"amount"`
}
