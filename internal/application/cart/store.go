package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AmalManoj-243/salesorderandpos/internal/domain"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
	"github.com/AmalManoj-243/salesorderandpos/internal/domain/repository"
	"github.com/AmalManoj-243/salesorderandpos/pkg/logger"
)

// persistTimeout límite para cada escritura durable fire-and-forget.
const persistTimeout = 5 * time.Second

// Store mantiene un carrito por cliente y cuál cliente está activo.
// El estado en memoria es autoritativo durante la sesión; cada mutación
// dispara una escritura durable best-effort (clave "cart_<customerId>") cuyo
// fallo se loggea sin revertir la mutación. Un carrito persistido corrupto o
// ilegible se trata como carrito vacío, nunca como error bloqueante.
type Store struct {
	mu       sync.Mutex
	carts    map[string][]entity.CartLine
	activeID string
	storage  repository.CartStorage
	log      *logger.Logger
}

// NewStore construye el store (mapa vacío; se llena al activar clientes).
func NewStore(storage repository.CartStorage, log *logger.Logger) *Store {
	return &Store{
		carts:   make(map[string][]entity.CartLine),
		storage: storage,
		log:     log,
	}
}

// cartKey clave durable del carrito de un cliente.
func cartKey(customerID string) string {
	return "cart_" + customerID
}

// SetActiveCustomer cambia el carrito "actual". Si el cliente no está en
// memoria intenta restaurar su carrito persistido; sin copia durable (o con
// copia ilegible) arranca vacío. Cambiar de cliente nunca muta el carrito de
// otro cliente.
func (s *Store) SetActiveCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	s.activeID = customerID
	_, inMemory := s.carts[customerID]
	if !inMemory {
		s.carts[customerID] = nil
	}
	s.mu.Unlock()
	if inMemory {
		return nil
	}

	lines := s.restore(ctx, customerID)
	s.mu.Lock()
	s.carts[customerID] = lines
	s.mu.Unlock()
	return nil
}

// restore carga el carrito durable de un cliente (fail-open).
func (s *Store) restore(ctx context.Context, customerID string) []entity.CartLine {
	raw, err := s.storage.Get(ctx, cartKey(customerID))
	if err != nil {
		s.log.Warn().Err(err).Str("customer_id", customerID).Msg("lectura del carrito persistido falló, se inicia vacío")
		return nil
	}
	if raw == nil {
		return nil
	}
	var lines []entity.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.log.Warn().Err(err).Str("customer_id", customerID).Msg("carrito persistido corrupto, se inicia vacío")
		return nil
	}
	return lines
}

// ActiveCustomer devuelve el id del cliente activo ("" si no hay).
func (s *Store) ActiveCustomer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// CurrentCart devuelve una copia del carrito del cliente activo en orden de
// inserción.
func (s *Store) CurrentCart() []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.carts[s.activeID])
}

// CartOf devuelve una copia del carrito de un cliente.
func (s *Store) CartOf(customerID string) []entity.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.carts[customerID])
}

// AddOrUpdateLine es la única primitiva de mutación de líneas: si ya existe
// una línea con el mismo ProductID la reemplaza completa (el caller computa
// cantidad/precio finales, incluidos los deltas +1/-1); si no, la agrega al
// final. Cantidad 0 conserva la línea: eliminar es solo RemoveLine.
func (s *Store) AddOrUpdateLine(line entity.CartLine) error {
	if line.ProductID == "" || line.Quantity < 0 || line.UnitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	if s.activeID == "" {
		s.mu.Unlock()
		return domain.ErrNoActiveCustomer
	}
	customerID := s.activeID
	lines := s.carts[customerID]
	replaced := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, line)
	}
	s.carts[customerID] = lines
	snapshot := copyLines(lines)
	s.mu.Unlock()

	s.persistAsync(customerID, snapshot)
	return nil
}

// RemoveLine elimina la línea del producto si existe; no-op si no.
func (s *Store) RemoveLine(productID string) error {
	s.mu.Lock()
	if s.activeID == "" {
		s.mu.Unlock()
		return domain.ErrNoActiveCustomer
	}
	customerID := s.activeID
	lines := s.carts[customerID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			s.carts[customerID] = lines
			break
		}
	}
	snapshot := copyLines(s.carts[customerID])
	s.mu.Unlock()

	s.persistAsync(customerID, snapshot)
	return nil
}

// LoadCart reemplaza el carrito completo de un cliente y lo deja activo.
func (s *Store) LoadCart(customerID string, lines []entity.CartLine) error {
	if customerID == "" {
		return domain.ErrInvalidInput
	}
	snapshot := copyLines(lines)
	s.mu.Lock()
	s.activeID = customerID
	s.carts[customerID] = copyLines(lines)
	s.mu.Unlock()

	s.persistAsync(customerID, snapshot)
	return nil
}

// MigrateCart re-asigna el carrito activo a un cliente recién seleccionado
// (el flujo "armar carrito y después elegir cliente"). El carrito conserva el
// orden de sus líneas; el cliente de origen queda vacío y el destino activo.
func (s *Store) MigrateCart(toCustomerID string) error {
	if toCustomerID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	from := s.activeID
	if from == "" {
		s.mu.Unlock()
		return domain.ErrNoActiveCustomer
	}
	if from == toCustomerID {
		s.mu.Unlock()
		return nil
	}
	lines := s.carts[from]
	s.carts[from] = nil
	s.mu.Unlock()

	s.persistAsync(from, nil)
	return s.LoadCart(toCustomerID, lines)
}

// ClearCart vacía el carrito en memoria de un cliente.
func (s *Store) ClearCart(customerID string) {
	s.mu.Lock()
	s.carts[customerID] = nil
	s.mu.Unlock()
	s.persistAsync(customerID, nil)
}

// ClearCurrent vacía el carrito del cliente activo.
func (s *Store) ClearCurrent() error {
	s.mu.Lock()
	customerID := s.activeID
	s.mu.Unlock()
	if customerID == "" {
		return domain.ErrNoActiveCustomer
	}
	s.ClearCart(customerID)
	return nil
}

// DeletePersisted borra la entrada durable del cliente (limpieza post-envío
// exitoso). Síncrono: el caller decide si el fallo es warning.
func (s *Store) DeletePersisted(ctx context.Context, customerID string) error {
	return s.storage.Delete(ctx, cartKey(customerID))
}

// persistAsync escritura durable fire-and-forget. Un fallo no revierte nada:
// queda el log como único canal de observación. Escrituras de un mismo
// cliente pueden reordenarse entre sí; basta con que la última sea durable.
func (s *Store) persistAsync(customerID string, lines []entity.CartLine) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		raw, err := json.Marshal(lines)
		if err != nil {
			s.log.Warn().Err(err).Str("customer_id", customerID).Msg("serializar carrito para persistir falló")
			return
		}
		if err := s.storage.Set(ctx, cartKey(customerID), raw); err != nil {
			s.log.Warn().Err(err).Str("customer_id", customerID).Msg("persistencia del carrito falló, estado en memoria intacto")
		}
	}()
}

func copyLines(lines []entity.CartLine) []entity.CartLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]entity.CartLine, len(lines))
	copy(out, lines)
	return out
}
