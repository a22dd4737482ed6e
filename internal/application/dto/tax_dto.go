package dto

// TaxResponse definición de impuesto del catálogo.
type TaxResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AmountType string `json:"amount_type"` // percent | fixed
	Amount     string `json:"amount"`
}

// ToggleTaxRequest body para POST /api/cart/taxes/toggle.
type ToggleTaxRequest struct {
	ProductID string `json:"product_id"`
	TaxID     string `json:"tax_id"`
}

// SeedTaxesRequest body para POST /api/cart/taxes/seed: defaults de impuesto
// por producto (taxes_id del catálogo de productos del backend).
type SeedTaxesRequest struct {
	Defaults []ProductTaxDefaults `json:"defaults"`
}

// ProductTaxDefaults impuestos por defecto de un producto.
type ProductTaxDefaults struct {
	ProductID string   `json:"product_id"`
	TaxIDs    []string `json:"tax_ids"`
}

// AssignmentsResponse asignaciones vigentes del cliente activo.
type AssignmentsResponse struct {
	CustomerID  string              `json:"customer_id"`
	Assignments map[string][]string `json:"assignments"`
}
