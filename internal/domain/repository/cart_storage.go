package repository

import "context"

// CartStorage define el puerto de persistencia durable de carritos como un
// mapa opaco clave → carrito serializado. Las claves son de la forma
// "cart_<customerId>". La copia durable es best-effort: el estado en memoria
// es la fuente de verdad durante la sesión.
type CartStorage interface {
	// Get devuelve el valor serializado o nil si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
