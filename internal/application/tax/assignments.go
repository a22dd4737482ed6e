package tax

import "sync"

// AssignmentSet mapea product id → ids de impuestos aplicados a su línea.
// Las operaciones devuelven un mapa nuevo (copy-on-write): lectores del set
// anterior no se ven afectados.
type AssignmentSet map[string][]string

// AssignedTo devuelve los impuestos asignados a un producto (nil si no hay).
func (a AssignmentSet) AssignedTo(productID string) []string {
	if a == nil {
		return nil
	}
	return a[productID]
}

// clone copia superficial del mapa con slices nuevos.
func (a AssignmentSet) clone() AssignmentSet {
	out := make(AssignmentSet, len(a))
	for pid, ids := range a {
		cp := make([]string, len(ids))
		copy(cp, ids)
		out[pid] = cp
	}
	return out
}

// Toggle agrega el impuesto si no está asignado y lo quita si ya lo está
// (diferencia simétrica). No muta el set de entrada.
func Toggle(a AssignmentSet, productID, taxID string) AssignmentSet {
	out := a.clone()
	current := out[productID]
	for i, id := range current {
		if id == taxID {
			out[productID] = append(current[:i:i], current[i+1:]...)
			return out
		}
	}
	out[productID] = append(current, taxID)
	return out
}

// AutoSeed siembra los impuestos por defecto de cada producto SIN pisar
// selecciones de usuario no vacías: una entrada previa con impuestos gana
// siempre sobre los defaults. Idempotente: sembrar dos veces con los mismos
// insumos produce el mismo resultado.
func AutoSeed(defaults map[string][]string, existing AssignmentSet) AssignmentSet {
	out := make(AssignmentSet, len(defaults)+len(existing))
	for pid, ids := range defaults {
		if len(ids) == 0 {
			continue
		}
		cp := make([]string, len(ids))
		copy(cp, ids)
		out[pid] = cp
	}
	for pid, ids := range existing {
		if len(ids) > 0 {
			cp := make([]string, len(ids))
			copy(cp, ids)
			out[pid] = cp
		}
	}
	return out
}

// AssignmentBook guarda el AssignmentSet de cada cliente durante la sesión.
// No se persiste: se resetea cuando la pantalla del carrito se (re)carga y se
// vuelve a sembrar desde los defaults del producto.
type AssignmentBook struct {
	mu         sync.Mutex
	byCustomer map[string]AssignmentSet
}

// NewAssignmentBook construye el libro de asignaciones de la sesión.
func NewAssignmentBook() *AssignmentBook {
	return &AssignmentBook{byCustomer: make(map[string]AssignmentSet)}
}

// Get devuelve el set vigente del cliente. El valor devuelto es seguro de
// leer concurrentemente porque toda mutación reemplaza el mapa completo.
func (b *AssignmentBook) Get(customerID string) AssignmentSet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byCustomer[customerID]
}

// Toggle alterna un impuesto sobre un producto del cliente.
func (b *AssignmentBook) Toggle(customerID, productID, taxID string) AssignmentSet {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := Toggle(b.byCustomer[customerID], productID, taxID)
	b.byCustomer[customerID] = next
	return next
}

// Seed aplica AutoSeed sobre el set vigente del cliente.
func (b *AssignmentBook) Seed(customerID string, defaults map[string][]string) AssignmentSet {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := AutoSeed(defaults, b.byCustomer[customerID])
	b.byCustomer[customerID] = next
	return next
}

// Reset descarta las asignaciones del cliente (recarga de pantalla).
func (b *AssignmentBook) Reset(customerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byCustomer, customerID)
}
