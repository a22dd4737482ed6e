package entity

import "github.com/shopspring/decimal"

// InventoryLedger referencia de inventario que puede venir adjunta a un
// producto desde el backend. Solo interesa la bodega: es el segundo fallback
// para resolver warehouse_id al enviar una orden.
type InventoryLedger struct {
	WarehouseID string `json:"warehouse_id"`
}

// CartLine es una línea del carrito: un producto con su cantidad y precio
// unitario editables. Invariante: a lo sumo una línea por ProductID dentro de
// un carrito; cantidad 0 es válida (la línea se conserva, eliminar es una
// operación explícita).
type CartLine struct {
	ProductID        string            `json:"product_id"`
	InternalID       string            `json:"internal_id,omitempty"` // id interno cuando difiere del id del backend
	Name             string            `json:"name"`
	ProductCode      string            `json:"product_code,omitempty"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	Quantity         int               `json:"quantity"`
	InventoryLedgers []InventoryLedger `json:"inventory_ledgers,omitempty"`
}

// Subtotal devuelve cantidad × precio unitario (sin impuestos).
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
