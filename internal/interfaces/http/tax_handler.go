package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/dto"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
)

// TaxHandler maneja el catálogo de impuestos y las asignaciones por producto.
type TaxHandler struct {
	catalog *tax.Catalog
	book    *tax.AssignmentBook
	store   *cart.Store
}

// NewTaxHandler construye el handler.
func NewTaxHandler(catalog *tax.Catalog, book *tax.AssignmentBook, store *cart.Store) *TaxHandler {
	return &TaxHandler{catalog: catalog, book: book, store: store}
}

// List devuelve el catálogo vigente; con ?refresh=1 lo refresca primero.
// Un refresh fallido no es error: se responde con el snapshot anterior.
// GET /api/taxes
func (h *TaxHandler) List(c *fiber.Ctx) error {
	if c.Query("refresh") == "1" {
		_ = h.catalog.Refresh(c.Context()) // no-fatal, ya queda en el log
	}
	snapshot := h.catalog.Snapshot()
	out := make([]dto.TaxResponse, 0, len(snapshot))
	for _, t := range snapshot {
		out = append(out, dto.TaxResponse{
			ID:         t.ID,
			Name:       t.Name,
			AmountType: t.AmountType,
			Amount:     t.Amount.String(),
		})
	}
	return c.JSON(out)
}

// Toggle alterna un impuesto sobre un producto del cliente activo.
// POST /api/cart/taxes/toggle
func (h *TaxHandler) Toggle(c *fiber.Ctx) error {
	customerID := h.store.ActiveCustomer()
	if customerID == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_CUSTOMER", Message: "no hay cliente activo"})
	}
	var in dto.ToggleTaxRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.TaxID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y tax_id requeridos"})
	}
	next := h.book.Toggle(customerID, in.ProductID, in.TaxID)
	return c.JSON(dto.AssignmentsResponse{CustomerID: customerID, Assignments: next})
}

// Seed siembra los impuestos por defecto de los productos sin pisar
// selecciones de usuario (la pantalla lo llama al cargar el carrito).
// POST /api/cart/taxes/seed
func (h *TaxHandler) Seed(c *fiber.Ctx) error {
	customerID := h.store.ActiveCustomer()
	if customerID == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_CUSTOMER", Message: "no hay cliente activo"})
	}
	var in dto.SeedTaxesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	defaults := make(map[string][]string, len(in.Defaults))
	for _, d := range in.Defaults {
		defaults[d.ProductID] = d.TaxIDs
	}
	next := h.book.Seed(customerID, defaults)
	return c.JSON(dto.AssignmentsResponse{CustomerID: customerID, Assignments: next})
}
