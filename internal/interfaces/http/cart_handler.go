package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/dto"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
	"github.com/AmalManoj-243/salesorderandpos/internal/infrastructure/pdf"
)

// DisplayConfig precisión y moneda de presentación. La precisión es
// configuración de la capa de presentación, no un invariante del motor.
type DisplayConfig struct {
	Currency string
	Decimals int32
}

// CartHandler maneja la sesión de carrito: cliente activo, líneas, totales y recibo.
type CartHandler struct {
	store   *cart.Store
	book    *tax.AssignmentBook
	catalog *tax.Catalog
	receipt *pdf.ReceiptGenerator
	display DisplayConfig
}

// NewCartHandler construye el handler.
func NewCartHandler(store *cart.Store, book *tax.AssignmentBook, catalog *tax.Catalog, receipt *pdf.ReceiptGenerator, display DisplayConfig) *CartHandler {
	return &CartHandler{store: store, book: book, catalog: catalog, receipt: receipt, display: display}
}

// SetCustomer activa el cliente y carga su carrito persistido si no está en
// memoria. Con migrate=true el carrito activo se lleva al cliente indicado en
// vez de cargar el suyo. Las asignaciones de impuestos del cliente se
// resetean: son estado de pantalla y se vuelven a sembrar desde los defaults
// del producto.
// PUT /api/session/customer
func (h *CartHandler) SetCustomer(c *fiber.Ctx) error {
	var in dto.SetCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Migrate && h.store.ActiveCustomer() != "" {
		if err := h.store.MigrateCart(in.CustomerID); err != nil {
			return mapCartError(c, err)
		}
	} else if err := h.store.SetActiveCustomer(c.Context(), in.CustomerID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id requerido"})
	}
	h.book.Reset(in.CustomerID)
	return h.Get(c)
}

// Get devuelve el carrito del cliente activo con impuestos y totales.
// GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	customerID := h.store.ActiveCustomer()
	if customerID == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_CUSTOMER", Message: "no hay cliente activo"})
	}
	return c.JSON(h.cartResponse(customerID))
}

// AddLine agrega o reemplaza una línea (primitiva única de mutación).
// POST /api/cart/lines
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var in dto.CartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ledgers := make([]entity.InventoryLedger, 0, len(in.InventoryLedgers))
	for _, l := range in.InventoryLedgers {
		ledgers = append(ledgers, entity.InventoryLedger{WarehouseID: l.WarehouseID})
	}
	line := entity.CartLine{
		ProductID:        in.ProductID,
		InternalID:       in.InternalID,
		Name:             in.Name,
		ProductCode:      in.ProductCode,
		UnitPrice:        in.UnitPrice,
		Quantity:         in.Quantity,
		InventoryLedgers: ledgers,
	}
	if err := h.store.AddOrUpdateLine(line); err != nil {
		return mapCartError(c, err)
	}
	return h.Get(c)
}

// RemoveLine elimina una línea; no-op si el producto no está en el carrito.
// DELETE /api/cart/lines/:productId
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId requerido"})
	}
	if err := h.store.RemoveLine(productID); err != nil {
		return mapCartError(c, err)
	}
	return h.Get(c)
}

// Clear vacía el carrito del cliente activo.
// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.store.ClearCurrent(); err != nil {
		return mapCartError(c, err)
	}
	return h.Get(c)
}

// Totals devuelve solo los agregados del carrito activo.
// GET /api/cart/totals
func (h *CartHandler) Totals(c *fiber.Ctx) error {
	customerID := h.store.ActiveCustomer()
	if customerID == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_CUSTOMER", Message: "no hay cliente activo"})
	}
	lines := h.store.CartOf(customerID)
	totals := tax.CartTotals(lines, h.catalog.Snapshot(), h.book.Get(customerID))
	return c.JSON(h.totalsResponse(totals))
}

// Receipt genera el PDF del recibo del carrito activo.
// GET /api/cart/receipt
func (h *CartHandler) Receipt(c *fiber.Ctx) error {
	customerID := h.store.ActiveCustomer()
	if customerID == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_CUSTOMER", Message: "no hay cliente activo"})
	}
	lines := h.store.CartOf(customerID)
	if len(lines) == 0 {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
	}
	catalog := h.catalog.Snapshot()
	assignments := h.book.Get(customerID)
	doc, err := h.receipt.Generate(pdf.ReceiptData{
		CustomerName: c.Query("customer_name", customerID),
		Currency:     h.display.Currency,
		Decimals:     h.display.Decimals,
		Lines:        lines,
		Catalog:      catalog,
		Assignments:  assignments,
		Totals:       tax.CartTotals(lines, catalog, assignments),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo.pdf"`)
	return c.Send(doc)
}

// cartResponse arma la respuesta completa del carrito activo.
func (h *CartHandler) cartResponse(customerID string) dto.CartResponse {
	lines := h.store.CartOf(customerID)
	catalog := h.catalog.Snapshot()
	assignments := h.book.Get(customerID)

	out := make([]dto.CartLineResponse, 0, len(lines))
	for _, l := range lines {
		taxIDs := assignments.AssignedTo(l.ProductID)
		if taxIDs == nil {
			taxIDs = []string{}
		}
		out = append(out, dto.CartLineResponse{
			ProductID:   l.ProductID,
			Name:        l.Name,
			ProductCode: l.ProductCode,
			UnitPrice:   l.UnitPrice.StringFixed(h.display.Decimals),
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal().StringFixed(h.display.Decimals),
			TaxIDs:      taxIDs,
			TaxAmount:   tax.LineTax(l, taxIDs, catalog).StringFixed(h.display.Decimals),
		})
	}
	return dto.CartResponse{
		CustomerID: customerID,
		Lines:      out,
		Totals:     h.totalsResponse(tax.CartTotals(lines, catalog, assignments)),
	}
}

func (h *CartHandler) totalsResponse(t tax.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{
		UntaxedAmount: t.Untaxed.StringFixed(h.display.Decimals),
		TaxAmount:     t.Tax.StringFixed(h.display.Decimals),
		TotalAmount:   t.Grand.StringFixed(h.display.Decimals),
		TotalQuantity: t.TotalQuantity,
		Currency:      h.display.Currency,
	}
}

// mapCartError traduce errores del store a respuestas HTTP.
func mapCartError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrNoActiveCustomer:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_CUSTOMER", Message: "no hay cliente activo"})
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
