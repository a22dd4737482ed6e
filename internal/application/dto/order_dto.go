package dto

// PlaceOrderRequest body para POST /api/orders. Si CustomerID va vacío se
// usa el cliente activo de la sesión. Name y Address son los datos que la
// pantalla ya conoce; la dirección faltante se resuelve por fallback.
type PlaceOrderRequest struct {
	CustomerID   string `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	Address      string `json:"address,omitempty"`
}

// DirectInvoiceRequest body para POST /api/invoices.
type DirectInvoiceRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
}

// SubmissionResponse resultado terminal de un envío exitoso.
type SubmissionResponse struct {
	State     string   `json:"state"` // Succeeded
	OrderID   string   `json:"order_id,omitempty"`
	InvoiceID string   `json:"invoice_id,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
