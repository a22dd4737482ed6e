package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/dto"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/order"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
)

// OrderHandler maneja el envío de órdenes y la factura directa.
type OrderHandler struct {
	workflow *order.Workflow
	store    *cart.Store
	book     *tax.AssignmentBook
}

// NewOrderHandler construye el handler.
func NewOrderHandler(workflow *order.Workflow, store *cart.Store, book *tax.AssignmentBook) *OrderHandler {
	return &OrderHandler{workflow: workflow, store: store, book: book}
}

// Place corre el flujo completo de envío para el cliente del body (o el
// activo de la sesión si el body no trae uno).
// POST /api/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	customerID := in.CustomerID
	if customerID == "" {
		customerID = h.store.ActiveCustomer()
	}

	salesPersonID, salesPersonName := GetSalesPerson(c)
	result, err := h.workflow.PlaceOrder(c.Context(),
		entity.Customer{ID: customerID, Name: in.CustomerName, Address: in.Address},
		order.UserContext{
			UserID:          GetUserID(c),
			SalesPersonID:   salesPersonID,
			SalesPersonName: salesPersonName,
			WarehouseID:     GetWarehouseID(c),
		},
		h.book.Get(customerID),
	)
	if err != nil {
		return mapSubmissionError(c, err)
	}
	return submissionResponse(c, result)
}

// Invoice camino corto de factura directa sobre el carrito del cliente.
// POST /api/invoices
func (h *OrderHandler) Invoice(c *fiber.Ctx) error {
	var in dto.DirectInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	customerID := in.CustomerID
	if customerID == "" {
		customerID = h.store.ActiveCustomer()
	}

	result, err := h.workflow.DirectInvoice(c.Context(), customerID)
	if err != nil {
		return mapSubmissionError(c, err)
	}
	return submissionResponse(c, result)
}

func submissionResponse(c *fiber.Ctx, r *order.Result) error {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(dto.SubmissionResponse{
		State:     string(r.State),
		OrderID:   r.OrderID,
		InvoiceID: r.InvoiceID,
		Warnings:  warnings,
	})
}

// mapSubmissionError traduce los errores terminales del flujo a HTTP.
func mapSubmissionError(c *fiber.Ctx, err error) error {
	var missing *domain.MissingFieldsError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "MISSING_FIELDS",
			Message: "faltan campos requeridos: " + strings.Join(missing.Fields, ", "),
		})
	}
	var sub *domain.SubmissionError
	if errors.As(err, &sub) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SUBMISSION_FAILED", Message: sub.Message})
	}
	switch {
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SUBMISSION_IN_FLIGHT", Message: "ya hay un envío en curso para este cliente"})
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
