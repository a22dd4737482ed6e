package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmalManoj-243/salesorderandpos/internal/domain/repository"
)

var _ repository.CartStorage = (*CartStorageRepo)(nil)

// CartStorageRepo implementación de CartStorage sobre la tabla pos_carts
// (clave → JSONB). Upsert simple: last-writer-wins es aceptable porque solo
// importa que la última escritura de cada cliente sea durable.
//
//	CREATE TABLE IF NOT EXISTS pos_carts (
//	    key        TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type CartStorageRepo struct {
	pool *pgxpool.Pool
}

// NewCartStorage construye el adaptador.
func NewCartStorage(pool *pgxpool.Pool) *CartStorageRepo {
	return &CartStorageRepo{pool: pool}
}

// Get devuelve el carrito serializado o nil si la clave no existe.
func (r *CartStorageRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM pos_carts WHERE key = $1`, key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return payload, nil
}

// Set inserta o reemplaza el carrito serializado de la clave.
func (r *CartStorageRepo) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pos_carts (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = $3`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

// Delete borra la clave; no-op si no existe.
func (r *CartStorageRepo) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM pos_carts WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
