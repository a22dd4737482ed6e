package tax

import (
	"context"
	"sync"

	"github.com/AmalManoj-243/salesorderandpos/internal/domain/entity"
	"github.com/AmalManoj-243/salesorderandpos/pkg/logger"
)

// Filter filtro para la consulta de impuestos al backend.
type Filter struct {
	TypeTaxUse string `json:"type_tax_use"`
}

// Fetcher define el puerto de salida para obtener el catálogo de impuestos.
type Fetcher interface {
	FetchTaxes(ctx context.Context, filter Filter) ([]entity.Tax, error)
}

// Catalog mantiene el snapshot vigente de definiciones de impuestos.
// Solo lectura entre refreshes; un refresh fallido conserva el snapshot
// anterior (catálogo vacío al inicio: todos los cálculos dan cero hasta el
// primer refresh exitoso).
type Catalog struct {
	mu      sync.RWMutex
	taxes   []entity.Tax
	fetcher Fetcher
	log     *logger.Logger
}

// NewCatalog construye el catálogo (vacío hasta el primer Refresh).
func NewCatalog(fetcher Fetcher, log *logger.Logger) *Catalog {
	return &Catalog{fetcher: fetcher, log: log}
}

// Refresh consulta el catálogo de venta al backend y reemplaza el snapshot.
// Un fallo es no-fatal: se loggea, se conserva el snapshot anterior y se
// devuelve el error solo a título informativo.
func (c *Catalog) Refresh(ctx context.Context) error {
	taxes, err := c.fetcher.FetchTaxes(ctx, Filter{TypeTaxUse: "sale"})
	if err != nil {
		c.log.Warn().Err(err).Msg("catálogo de impuestos no disponible, se conserva el snapshot anterior")
		return err
	}
	c.mu.Lock()
	c.taxes = taxes
	c.mu.Unlock()
	c.log.Info().Int("taxes", len(taxes)).Msg("catálogo de impuestos actualizado")
	return nil
}

// Snapshot devuelve una copia del catálogo vigente.
func (c *Catalog) Snapshot() []entity.Tax {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Tax, len(c.taxes))
	copy(out, c.taxes)
	return out
}
