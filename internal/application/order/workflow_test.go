package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/cart"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/order"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
	"github.com/AmalManoj-243/salesorderandpos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks
// ──────────────────────────────────────────────────────────────────────────────

// gatewayMock backend de ventas programable.
type gatewayMock struct {
	mu sync.Mutex

	taxes           []entity.Tax
	customerDetails *order.CustomerDetails
	customerErr     error
	orderID         string
	orderErr        error
	confirmErr      error
	invoiceID       string
	invoiceErr      error

	// hooks de sincronización para el test de single-flight
	orderStarted chan struct{}
	orderRelease chan struct{}

	lastPayload  *order.Payload
	confirmedIDs []string
}

func (g *gatewayMock) FetchTaxes(context.Context, tax.Filter) ([]entity.Tax, error) {
	return g.taxes, nil
}

func (g *gatewayMock) FetchCustomerDetails(context.Context, string) (*order.CustomerDetails, error) {
	return g.customerDetails, g.customerErr
}

func (g *gatewayMock) CreateOrder(_ context.Context, payload *order.Payload) (string, error) {
	if g.orderStarted != nil {
		g.orderStarted <- struct{}{}
		<-g.orderRelease
	}
	g.mu.Lock()
	g.lastPayload = payload
	g.mu.Unlock()
	return g.orderID, g.orderErr
}

func (g *gatewayMock) ConfirmOrder(_ context.Context, orderID string) error {
	g.mu.Lock()
	g.confirmedIDs = append(g.confirmedIDs, orderID)
	g.mu.Unlock()
	return g.confirmErr
}

func (g *gatewayMock) CreateInvoice(context.Context, string, []order.InvoiceLine) (string, error) {
	return g.invoiceID, g.invoiceErr
}

// storageMock almacenamiento durable mínimo que registra los borrados.
type storageMock struct {
	mu      sync.Mutex
	deleted []string
}

func (s *storageMock) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (s *storageMock) Set(context.Context, string, []byte) error   { return nil }
func (s *storageMock) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *storageMock) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *cart.Store
	storage  *storageMock
	gateway  *gatewayMock
	workflow *order.Workflow
}

func newFixture(t *testing.T, gateway *gatewayMock, defaultWarehouseID string) *fixture {
	t.Helper()
	storage := &storageMock{}
	store := cart.NewStore(storage, logger.Nop())
	catalog := tax.NewCatalog(gateway, logger.Nop())
	if len(gateway.taxes) > 0 {
		require.NoError(t, catalog.Refresh(context.Background()))
	}
	return &fixture{
		store:    store,
		storage:  storage,
		gateway:  gateway,
		workflow: order.NewWorkflow(store, catalog, gateway, defaultWarehouseID, logger.Nop()),
	}
}

func (f *fixture) fillCart(t *testing.T, customerID string, lines ...entity.CartLine) {
	t.Helper()
	require.NoError(t, f.store.SetActiveCustomer(context.Background(), customerID))
	for _, l := range lines {
		require.NoError(t, f.store.AddOrUpdateLine(l))
	}
}

func lineWithLedger(productID string, qty int, warehouseID string) entity.CartLine {
	l := entity.CartLine{
		ProductID: productID,
		Name:      "producto " + productID,
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  qty,
	}
	if warehouseID != "" {
		l.InventoryLedgers = []entity.InventoryLedger{{WarehouseID: warehouseID}}
	}
	return l
}

var usuarioConBodega = order.UserContext{
	UserID:          "cajero1",
	SalesPersonID:   "7",
	SalesPersonName: "Cajero Uno",
	WarehouseID:     "W9",
}

// ──────────────────────────────────────────────────────────────────────────────
// PlaceOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestPlaceOrder_ExitoLimpiaCarritoYCopiaDurable(t *testing.T) {
	gw := &gatewayMock{orderID: "SO-100"}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 2, ""))

	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Name: "Cliente Uno", Address: "Calle 1"},
		usuarioConBodega, nil)

	require.NoError(t, err)
	assert.Equal(t, order.StateSucceeded, result.State)
	assert.Equal(t, "SO-100", result.OrderID)
	assert.Empty(t, result.Warnings)

	assert.Empty(t, f.store.CartOf("c1"), "el carrito se vacía solo tras el éxito")
	assert.Contains(t, f.storage.deletedKeys(), "cart_c1", "la copia durable se borra")
	assert.Equal(t, []string{"SO-100"}, gw.confirmedIDs)
}

func TestPlaceOrder_CamposFaltantesNoLlamaAlBackend(t *testing.T) {
	// Sin bodega de usuario, sin ledger en la línea, sin default: falta
	// warehouse_id. Cliente sin dirección ni nombre y lookup fallido: falta
	// address. El carrito queda intacto y no se crea ninguna orden.
	gw := &gatewayMock{customerErr: errors.New("backend caído")}
	f := newFixture(t, gw, "")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1"},
		order.UserContext{UserID: "cajero1"}, nil)

	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"warehouse_id", "address"}, missing.Fields)
	assert.Equal(t, order.StateFailed, result.State)

	assert.Len(t, f.store.CartOf("c1"), 1, "el carrito no se toca en fallo")
	assert.Nil(t, gw.lastPayload, "ninguna llamada de creación llegó al backend")
}

func TestPlaceOrder_DireccionPorFallbackRemoto(t *testing.T) {
	gw := &gatewayMock{
		orderID:         "SO-1",
		customerDetails: &order.CustomerDetails{ID: "c1", Address: "Av. Remota 42"},
	}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	_, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Name: "Cliente Uno"},
		usuarioConBodega, nil)

	require.NoError(t, err)
	assert.Equal(t, "Av. Remota 42", gw.lastPayload.Address)
}

func TestPlaceOrder_DireccionCaeAlNombreDelCliente(t *testing.T) {
	gw := &gatewayMock{orderID: "SO-1", customerErr: errors.New("sin red")}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	_, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Name: "Cliente Uno"},
		usuarioConBodega, nil)

	require.NoError(t, err)
	assert.Equal(t, "Cliente Uno", gw.lastPayload.Address)
}

func TestPlaceOrder_BodegaDesdeLaPrimeraLinea(t *testing.T) {
	gw := &gatewayMock{orderID: "SO-1"}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, "W3"), lineWithLedger("P2", 1, "W5"))

	user := usuarioConBodega
	user.WarehouseID = ""
	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, user, nil)

	require.NoError(t, err)
	assert.Equal(t, "W3", gw.lastPayload.WarehouseID, "gana el hint de la primera línea")
	assert.Empty(t, result.Warnings, "usar hint de producto no genera warning")
}

func TestPlaceOrder_BodegaPorDefectoGeneraWarning(t *testing.T) {
	gw := &gatewayMock{orderID: "SO-1"}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	user := usuarioConBodega
	user.WarehouseID = ""
	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, user, nil)

	require.NoError(t, err)
	assert.Equal(t, "1", gw.lastPayload.WarehouseID)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "bodega por defecto")
}

func TestPlaceOrder_RespuestaSinIdEsFallo(t *testing.T) {
	gw := &gatewayMock{orderID: ""}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, nil)

	var sub *domain.SubmissionError
	require.ErrorAs(t, err, &sub)
	assert.Equal(t, order.StateFailed, result.State)
	assert.Len(t, f.store.CartOf("c1"), 1, "el carrito queda intacto para reintentar")
	assert.Empty(t, f.storage.deletedKeys())
}

func TestPlaceOrder_RechazoDelBackendPropagaElMensaje(t *testing.T) {
	gw := &gatewayMock{orderErr: &domain.SubmissionError{Message: "crédito excedido"}}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	_, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, nil)

	var sub *domain.SubmissionError
	require.ErrorAs(t, err, &sub)
	assert.Equal(t, "crédito excedido", sub.Message)
	assert.Len(t, f.store.CartOf("c1"), 1)
}

func TestPlaceOrder_ConfirmacionFallidaEsSoloWarning(t *testing.T) {
	gw := &gatewayMock{orderID: "SO-9", confirmErr: errors.New("timeout")}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, nil)

	require.NoError(t, err, "la orden ya existe en remoto: no es fallo")
	assert.Equal(t, order.StateSucceeded, result.State)
	assert.Equal(t, "SO-9", result.OrderID)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "confirmación")
	assert.Empty(t, f.store.CartOf("c1"), "la limpieza ocurre igual")
}

func TestPlaceOrder_CarritoVacio(t *testing.T) {
	gw := &gatewayMock{orderID: "SO-1"}
	f := newFixture(t, gw, "1")
	require.NoError(t, f.store.SetActiveCustomer(context.Background(), "c1"))

	result, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, nil)

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, order.StateFailed, result.State)
}

// Envíos superpuestos del mismo cliente se rechazan, nunca se intercalan.
func TestPlaceOrder_SingleFlightPorCliente(t *testing.T) {
	gw := &gatewayMock{
		orderID:      "SO-1",
		orderStarted: make(chan struct{}),
		orderRelease: make(chan struct{}),
	}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	done := make(chan error, 1)
	go func() {
		_, err := f.workflow.PlaceOrder(context.Background(),
			entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, nil)
		done <- err
	}()

	<-gw.orderStarted // el primer intento está dentro del backend

	_, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, nil)
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(gw.orderRelease)
	require.NoError(t, <-done, "el primer intento termina con normalidad")
}

// El payload congela el snapshot del carrito con impuestos y totales.
func TestPlaceOrder_PayloadConImpuestos(t *testing.T) {
	gw := &gatewayMock{
		orderID: "SO-1",
		taxes: []entity.Tax{
			{ID: "5", Name: "VAT 5%", AmountType: entity.TaxAmountTypePercent, Amount: decimal.NewFromInt(5)},
		},
	}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 2, ""))

	assignments := tax.AssignmentSet{"P1": {"5"}}
	_, err := f.workflow.PlaceOrder(context.Background(),
		entity.Customer{ID: "c1", Address: "Calle 1"}, usuarioConBodega, assignments)

	require.NoError(t, err)
	payload := gw.lastPayload
	require.NotNil(t, payload)
	assert.Equal(t, "c1", payload.CustomerID)
	assert.Equal(t, "W9", payload.WarehouseID)
	assert.Equal(t, "7", payload.SalesPersonID)
	require.Len(t, payload.Lines, 1)
	assert.Equal(t, []string{"5"}, payload.Lines[0].TaxIDs)
	assert.True(t, payload.UntaxedTotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, payload.TaxTotal.Equal(decimal.NewFromInt(1)))
	assert.True(t, payload.GrandTotal.Equal(decimal.NewFromInt(21)))
}

// ──────────────────────────────────────────────────────────────────────────────
// DirectInvoice
// ──────────────────────────────────────────────────────────────────────────────

func TestDirectInvoice_Exito(t *testing.T) {
	gw := &gatewayMock{invoiceID: "INV-7"}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	result, err := f.workflow.DirectInvoice(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, order.StateSucceeded, result.State)
	assert.Equal(t, "INV-7", result.InvoiceID)
	assert.Empty(t, f.store.CartOf("c1"))
	assert.Contains(t, f.storage.deletedKeys(), "cart_c1")
}

func TestDirectInvoice_SinCliente(t *testing.T) {
	gw := &gatewayMock{invoiceID: "INV-7"}
	f := newFixture(t, gw, "1")

	_, err := f.workflow.DirectInvoice(context.Background(), "")

	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"customer_id"}, missing.Fields)
}

func TestDirectInvoice_CarritoVacio(t *testing.T) {
	gw := &gatewayMock{invoiceID: "INV-7"}
	f := newFixture(t, gw, "1")
	require.NoError(t, f.store.SetActiveCustomer(context.Background(), "c1"))

	result, err := f.workflow.DirectInvoice(context.Background(), "c1")

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, order.StateFailed, result.State)
}

func TestDirectInvoice_FalloDejaCarritoIntacto(t *testing.T) {
	gw := &gatewayMock{invoiceErr: errors.New("backend caído")}
	f := newFixture(t, gw, "1")
	f.fillCart(t, "c1", lineWithLedger("P1", 1, ""))

	_, err := f.workflow.DirectInvoice(context.Background(), "c1")

	var sub *domain.SubmissionError
	require.ErrorAs(t, err, &sub)
	assert.Len(t, f.store.CartOf("c1"), 1)
}
