// Package odoo implementa el cliente JSON-RPC hacia el backend de ventas.
// Usa net/http de la stdlib; no requiere librerías de terceros.
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/order"
	"github.com/AmalManoj-243/salesorderandpos/internal/application/tax"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
	"github.com/AmalManoj-243/salesorderandpos/pkg/config"
	"github.com/AmalManoj-243/salesorderandpos/pkg/logger"
)

var _ order.SalesGateway = (*Client)(nil)

// Client cliente JSON-RPC del backend de ventas. Los timeouts son
// responsabilidad de este cliente: cualquier timeout le llega al flujo de
// órdenes como un error de envío más.
type Client struct {
	httpClient *http.Client
	url        string
	database   string
	username   string
	apiKey     string
	log        *logger.Logger
}

// NewClient construye el cliente con el timeout por llamada configurado.
func NewClient(cfg config.OdooConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		database:   cfg.Database,
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		log:        log,
	}
}

// ── JSON-RPC 2.0 ──────────────────────────────────────────────────────────────

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      string      `json:"id"`
}

type rpcError struct {
	Message string `json:"message"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
}

// serverMessage devuelve el mensaje más específico disponible.
func (e *rpcError) serverMessage() string {
	if e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call ejecuta una llamada JSON-RPC y devuelve el result crudo.
func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("serializar request %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crear request %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.database != "" {
		req.Header.Set("X-Odoo-Database", c.database)
	}
	if c.username != "" {
		req.Header.Set("X-Odoo-Username", c.username)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llamada %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("leer respuesta %s: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llamada %s: HTTP %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return nil, fmt.Errorf("decodificar respuesta %s: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s: %s", method, rpcResp.Error.serverMessage())
	}
	return rpcResp.Result, nil
}

// ── Impuestos ─────────────────────────────────────────────────────────────────

// taxDTO forma remota de una definición de impuesto. El id puede venir como
// número o string según el backend.
type taxDTO struct {
	ID         json.RawMessage `json:"id"`
	Name       string          `json:"name"`
	AmountType string          `json:"amount_type"`
	Amount     decimal.Decimal `json:"amount"`
}

// FetchTaxes obtiene el catálogo de impuestos de venta.
func (c *Client) FetchTaxes(ctx context.Context, filter tax.Filter) ([]entity.Tax, error) {
	result, err := c.call(ctx, "fetchTaxes", filter)
	if err != nil {
		return nil, err
	}
	var raw []taxDTO
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("decodificar impuestos: %w", err)
	}
	taxes := make([]entity.Tax, 0, len(raw))
	for _, t := range raw {
		id := ExtractID(t.ID)
		if id == "" {
			continue
		}
		taxes = append(taxes, entity.Tax{
			ID:         id,
			Name:       t.Name,
			AmountType: t.AmountType,
			Amount:     t.Amount,
		})
	}
	return taxes, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// FetchCustomerDetails consulta los datos remotos de un cliente (lookup de
// fallback de dirección).
func (c *Client) FetchCustomerDetails(ctx context.Context, customerID string) (*order.CustomerDetails, error) {
	result, err := c.call(ctx, "fetchCustomerDetails", map[string]string{"customer_id": customerID})
	if err != nil {
		return nil, err
	}
	var details struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Mobile  string `json:"mobile"`
	}
	if err := json.Unmarshal(result, &details); err != nil {
		return nil, fmt.Errorf("decodificar cliente: %w", err)
	}
	return &order.CustomerDetails{
		ID:      customerID,
		Name:    details.Name,
		Address: details.Address,
		Mobile:  details.Mobile,
	}, nil
}

// ── Órdenes y facturas ────────────────────────────────────────────────────────

// CreateOrder crea la orden de venta. El mensaje de rechazo del servidor se
// propaga en SubmissionError; un result sin id reconocible devuelve "".
func (c *Client) CreateOrder(ctx context.Context, payload *order.Payload) (string, error) {
	result, err := c.call(ctx, "createSaleOrder", payload)
	if err != nil {
		return "", &domain.SubmissionError{Message: err.Error()}
	}
	return ExtractID(result, "result", "id", "order_id"), nil
}

// ConfirmOrder confirma una orden ya creada.
func (c *Client) ConfirmOrder(ctx context.Context, orderID string) error {
	_, err := c.call(ctx, "confirmSaleOrder", map[string]string{"order_id": orderID})
	return err
}

// CreateInvoice crea una factura directa.
func (c *Client) CreateInvoice(ctx context.Context, customerID string, lines []order.InvoiceLine) (string, error) {
	params := map[string]interface{}{
		"customer_id": customerID,
		"lines":       lines,
	}
	result, err := c.call(ctx, "createInvoice", params)
	if err != nil {
		return "", &domain.SubmissionError{Message: err.Error()}
	}
	return ExtractID(result, "id", "result", "invoice_id"), nil
}
