package dto

import "github.com/shopspring/decimal"

// SetCustomerRequest body para PUT /api/session/customer. Con Migrate el
// carrito activo se lleva al cliente indicado en vez de cargar el suyo (flujo
// de armar el carrito antes de elegir cliente).
type SetCustomerRequest struct {
	CustomerID string `json:"customer_id"`
	Migrate    bool   `json:"migrate,omitempty"`
}

// LedgerDTO referencia de inventario adjunta a una línea.
type LedgerDTO struct {
	WarehouseID string `json:"warehouse_id"`
}

// CartLineRequest body para POST /api/cart/lines. El caller manda la línea
// completa de reemplazo: cantidad y precio finales, no deltas.
type CartLineRequest struct {
	ProductID        string          `json:"product_id"`
	InternalID       string          `json:"internal_id,omitempty"`
	Name             string          `json:"name"`
	ProductCode      string          `json:"product_code,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	InventoryLedgers []LedgerDTO     `json:"inventory_ledgers,omitempty"`
}

// CartLineResponse línea con su impuesto calculado, formateado con la
// precisión de presentación configurada.
type CartLineResponse struct {
	ProductID   string   `json:"product_id"`
	Name        string   `json:"name"`
	ProductCode string   `json:"product_code,omitempty"`
	UnitPrice   string   `json:"unit_price"`
	Quantity    int      `json:"quantity"`
	Subtotal    string   `json:"subtotal"`
	TaxIDs      []string `json:"tax_ids"`
	TaxAmount   string   `json:"tax_amount"`
}

// CartResponse carrito del cliente activo.
type CartResponse struct {
	CustomerID string             `json:"customer_id"`
	Lines      []CartLineResponse `json:"lines"`
	Totals     TotalsResponse     `json:"totals"`
}

// TotalsResponse agregados del carrito para la UI.
type TotalsResponse struct {
	UntaxedAmount string `json:"untaxed_amount"`
	TaxAmount     string `json:"tax_amount"`
	TotalAmount   string `json:"total_amount"`
	TotalQuantity int    `json:"total_quantity"`
	Currency      string `json:"currency"`
}
