package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
)

// CustomerDetails datos remotos de un cliente (lookup de fallback de
// dirección). Cualquier campo puede venir vacío.
type CustomerDetails struct {
	ID      string
	Name    string
	Address string
	Mobile  string
}

// PayloadLine línea del payload de orden. Los nombres JSON deben mantenerse
// estables para compatibilidad con el backend.
type PayloadLine struct {
	ProductID   string          `json:"product_id"`
	InternalID  string          `json:"product_internal_id,omitempty"`
	Name        string          `json:"name"`
	ProductCode string          `json:"product_code,omitempty"`
	Quantity    int             `json:"quantity"`
	PriceUnit   decimal.Decimal `json:"price_unit"`
	Total       decimal.Decimal `json:"total"`
	TaxIDs      []string        `json:"tax_ids"`
}

// Payload es la orden completa a enviar. Derivado, de un solo uso: se
// construye a partir del snapshot del carrito y no se persiste.
type Payload struct {
	Date            string          `json:"date"` // yyyy-mm-dd
	CustomerID      string          `json:"customer_id"`
	WarehouseID     string          `json:"warehouse_id"`
	Address         string          `json:"address"`
	UntaxedTotal    decimal.Decimal `json:"untaxed_total_amount"`
	TaxTotal        decimal.Decimal `json:"tax_total_amount"`
	GrandTotal      decimal.Decimal `json:"total_amount"`
	SalesPersonID   string          `json:"sales_person_id,omitempty"`
	SalesPersonName string          `json:"sales_person_name,omitempty"`
	Lines           []PayloadLine   `json:"lines"`
}

// InvoiceLine línea reducida para factura directa: sin desglose de impuestos.
type InvoiceLine struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// SalesGateway define el puerto de salida hacia el backend de ventas.
// La implementación concreta habla JSON-RPC; para tests se inyectan mocks.
type SalesGateway interface {
	tax.Fetcher
	// FetchCustomerDetails consulta los datos remotos de un cliente.
	FetchCustomerDetails(ctx context.Context, customerID string) (*CustomerDetails, error)
	// CreateOrder crea la orden de venta y devuelve su identificador.
	// Un id vacío con err nil significa que la respuesta no traía id.
	CreateOrder(ctx context.Context, payload *Payload) (string, error)
	// ConfirmOrder confirma una orden ya creada.
	ConfirmOrder(ctx context.Context, orderID string) error
	// CreateInvoice crea una factura directa y devuelve su identificador.
	CreateInvoice(ctx context.Context, customerID string, lines []InvoiceLine) (string, error)
}
