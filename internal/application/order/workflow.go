package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
	"github.com/AmalManoj-243/salesorderandpos/pkg/logger"
)

// State estado del intento de envío. Ningún estado es re-entrante en vuelo;
// Succeeded y Failed son terminales.
type State string

const (
	StateIdle               State = "Idle"
	StateValidating         State = "Validating"
	StateResolvingFallbacks State = "ResolvingFallbacks"
	StateBuildingPayload    State = "BuildingPayload"
	StateSubmitting         State = "Submitting"
	StateConfirming         State = "Confirming"
	StateSucceeded          State = "Succeeded"
	StateFailed             State = "Failed"
)

// UserContext datos del usuario de sesión relevantes para el envío.
type UserContext struct {
	UserID          string
	SalesPersonID   string
	SalesPersonName string
	WarehouseID     string
}

// Result resultado terminal de un intento (orden o factura directa).
// Warnings lleva avisos no bloqueantes (bodega por defecto usada,
// confirmación fallida) para que la UI los muestre sin abortar el flujo.
type Result struct {
	State     State
	OrderID   string
	InvoiceID string
	Warnings  []string
}

// Workflow orquesta el envío de órdenes: validación, resolución de
// fallbacks, construcción del payload, envío remoto, confirmación y limpieza
// post-éxito. Una instancia sirve a toda la sesión; cada intento corre la
// máquina de estados completa y es single-flight por cliente.
type Workflow struct {
	carts              *cart.Store
	catalog            *tax.Catalog
	gateway            SalesGateway
	defaultWarehouseID string
	log                *logger.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewWorkflow construye el flujo de envío.
func NewWorkflow(carts *cart.Store, catalog *tax.Catalog, gateway SalesGateway, defaultWarehouseID string, log *logger.Logger) *Workflow {
	return &Workflow{
		carts:              carts,
		catalog:            catalog,
		gateway:            gateway,
		defaultWarehouseID: defaultWarehouseID,
		log:                log,
		inFlight:           make(map[string]bool),
	}
}

// acquire marca al cliente como "en vuelo". Intentos superpuestos para el
// mismo carrito se rechazan (nunca se intercalan): evita doble creación de
// orden y la carrera entre la limpieza del carrito y un segundo envío.
func (w *Workflow) acquire(customerID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[customerID] {
		return domain.ErrSubmissionInFlight
	}
	w.inFlight[customerID] = true
	return nil
}

func (w *Workflow) release(customerID string) {
	w.mu.Lock()
	delete(w.inFlight, customerID)
	w.mu.Unlock()
}

// PlaceOrder ejecuta la máquina de estados completa para el cliente dado.
// En fallo el carrito queda intacto, así que reintentar reproduce el mismo
// payload de forma determinista (módulo cambios de catálogo entre intentos).
func (w *Workflow) PlaceOrder(ctx context.Context, customer entity.Customer, user UserContext, assignments tax.AssignmentSet) (*Result, error) {
	if err := w.acquire(customer.ID); err != nil {
		return nil, err
	}
	defer w.release(customer.ID)

	result := &Result{State: StateIdle}
	log := w.log.With().Str("customer_id", customer.ID).Logger()

	// Validating: campos requeridos desde el cliente y la sesión.
	result.State = StateValidating
	customerID := customer.ID
	address := customer.Address
	warehouseID := user.WarehouseID

	// ResolvingFallbacks: solo si falta dirección y hay cliente conocido.
	if address == "" && customerID != "" {
		result.State = StateResolvingFallbacks
		details, err := w.gateway.FetchCustomerDetails(ctx, customerID)
		if err != nil {
			// Fallo silencioso: se sigue con los demás fallbacks.
			log.Warn().Err(err).Msg("lookup remoto de cliente falló, se continúa con fallbacks")
		} else if details != nil && details.Address != "" {
			address = details.Address
		}
		if address == "" {
			address = customer.Name
		}
	}

	snapshot := w.carts.CartOf(customerID)

	// Bodega: usuario → hint de la primera línea → default configurado.
	if warehouseID == "" {
		for _, line := range snapshot {
			if len(line.InventoryLedgers) > 0 && line.InventoryLedgers[0].WarehouseID != "" {
				warehouseID = line.InventoryLedgers[0].WarehouseID
				break
			}
		}
	}
	if warehouseID == "" && w.defaultWarehouseID != "" {
		warehouseID = w.defaultWarehouseID
		warning := fmt.Sprintf("usando bodega por defecto (warehouse_id: %s)", warehouseID)
		result.Warnings = append(result.Warnings, warning)
		log.Warn().Str("warehouse_id", warehouseID).Msg("sin bodega de usuario ni de producto, se usa la bodega por defecto")
	}

	// Re-validación: si algo sigue faltando no se hace ninguna llamada remota.
	var missing []string
	if customerID == "" {
		missing = append(missing, "customer_id")
	}
	if warehouseID == "" {
		missing = append(missing, "warehouse_id")
	}
	if address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		result.State = StateFailed
		log.Warn().Strs("missing", missing).Msg("envío abortado por campos faltantes")
		return result, &domain.MissingFieldsError{Fields: missing}
	}

	if len(snapshot) == 0 {
		result.State = StateFailed
		return result, domain.ErrEmptyCart
	}

	// BuildingPayload: desde aquí el snapshot de carrito + asignaciones queda
	// congelado; mutaciones posteriores del carrito no alteran el intento.
	result.State = StateBuildingPayload
	payload := w.buildPayload(customerID, warehouseID, address, user, snapshot, assignments)

	// Submitting: cualquier fallo deja el carrito intacto para reintentar.
	result.State = StateSubmitting
	orderID, err := w.gateway.CreateOrder(ctx, payload)
	if err != nil {
		result.State = StateFailed
		log.Error().Err(err).Msg("creación de orden rechazada por el backend")
		if subErr, ok := err.(*domain.SubmissionError); ok {
			return result, subErr
		}
		return result, &domain.SubmissionError{Message: err.Error()}
	}
	if orderID == "" {
		result.State = StateFailed
		log.Error().Msg("la creación de orden no devolvió identificador")
		return result, &domain.SubmissionError{Message: "la respuesta no incluyó identificador de orden"}
	}
	result.OrderID = orderID

	// Confirming: la orden ya existe en remoto, un fallo aquí es solo warning.
	result.State = StateConfirming
	if err := w.gateway.ConfirmOrder(ctx, orderID); err != nil {
		warning := "la confirmación de la orden falló; la orden existe y puede confirmarse manualmente"
		result.Warnings = append(result.Warnings, warning)
		log.Warn().Err(err).Str("order_id", orderID).Msg("confirmación de orden falló, se continúa")
	}

	w.cleanupAfterSuccess(ctx, customerID, log)
	result.State = StateSucceeded
	log.Info().Str("order_id", orderID).Msg("orden creada")
	return result, nil
}

// DirectInvoice camino corto: solo requiere cliente; payload reducido (id,
// nombre, precio, cantidad) sin resolución de bodega/dirección ni desglose
// de impuestos. Misma limpieza post-éxito que el camino de orden.
func (w *Workflow) DirectInvoice(ctx context.Context, customerID string) (*Result, error) {
	if customerID == "" {
		return nil, &domain.MissingFieldsError{Fields: []string{"customer_id"}}
	}
	if err := w.acquire(customerID); err != nil {
		return nil, err
	}
	defer w.release(customerID)

	result := &Result{State: StateValidating}
	log := w.log.With().Str("customer_id", customerID).Logger()

	snapshot := w.carts.CartOf(customerID)
	if len(snapshot) == 0 {
		result.State = StateFailed
		return result, domain.ErrEmptyCart
	}

	result.State = StateBuildingPayload
	lines := make([]InvoiceLine, 0, len(snapshot))
	for _, l := range snapshot {
		lines = append(lines, InvoiceLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	result.State = StateSubmitting
	invoiceID, err := w.gateway.CreateInvoice(ctx, customerID, lines)
	if err != nil {
		result.State = StateFailed
		log.Error().Err(err).Msg("creación de factura directa rechazada")
		if subErr, ok := err.(*domain.SubmissionError); ok {
			return result, subErr
		}
		return result, &domain.SubmissionError{Message: err.Error()}
	}
	if invoiceID == "" {
		result.State = StateFailed
		return result, &domain.SubmissionError{Message: "la respuesta no incluyó identificador de factura"}
	}
	result.InvoiceID = invoiceID

	w.cleanupAfterSuccess(ctx, customerID, log)
	result.State = StateSucceeded
	log.Info().Str("invoice_id", invoiceID).Msg("factura directa creada")
	return result, nil
}

// buildPayload una línea por ítem del carrito con sus impuestos asignados y
// totales agregados del motor.
func (w *Workflow) buildPayload(customerID, warehouseID, address string, user UserContext, snapshot []entity.CartLine, assignments tax.AssignmentSet) *Payload {
	catalog := w.catalog.Snapshot()
	totals := tax.CartTotals(snapshot, catalog, assignments)

	lines := make([]PayloadLine, 0, len(snapshot))
	for _, l := range snapshot {
		taxIDs := assignments.AssignedTo(l.ProductID)
		if taxIDs == nil {
			taxIDs = []string{}
		}
		lines = append(lines, PayloadLine{
			ProductID:   l.ProductID,
			InternalID:  l.InternalID,
			Name:        l.Name,
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
			PriceUnit:   l.UnitPrice,
			Total:       l.Subtotal(),
			TaxIDs:      taxIDs,
		})
	}
	return &Payload{
		Date:            time.Now().Format("2006-01-02"),
		CustomerID:      customerID,
		WarehouseID:     warehouseID,
		Address:         address,
		UntaxedTotal:    totals.Untaxed,
		TaxTotal:        totals.Tax,
		GrandTotal:      totals.Grand,
		SalesPersonID:   user.SalesPersonID,
		SalesPersonName: user.SalesPersonName,
		Lines:           lines,
	}
}

// cleanupAfterSuccess vacía el carrito en memoria y borra la copia durable.
// Solo se llega aquí con éxito confirmado: ningún fallo previo limpia nada.
// Un fallo al borrar la copia durable no degrada el éxito (queda en el log).
func (w *Workflow) cleanupAfterSuccess(ctx context.Context, customerID string, log zerolog.Logger) {
	w.carts.ClearCart(customerID)
	if err := w.carts.DeletePersisted(ctx, customerID); err != nil {
		log.Warn().Err(err).Msg("borrar carrito persistido tras el envío falló")
	}
}
