package inventory

import (
	"context"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Movements repository.MovementRepository
	Variants  repository.StockVariantRepository
	Products  repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}

// StockCache caché de lectura del resumen de stock por producto.
// Los errores de caché nunca hacen fallar la operación principal.
type StockCache interface {
	Get(ctx context.Context, productID string) (*dto.StockSummaryResponse, bool, error)
	Set(ctx context.Context, summary *dto.StockSummaryResponse) error
	Invalidate(ctx context.Context, productIDs ...string) error
}

// Metrics contadores del motor de movimientos.
type Metrics interface {
	MovementRecorded(kind string, lines int)
	MovementRejected(kind, reason string)
}

// NoopCache StockCache que no guarda nada (REDIS_URL vacío).
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*dto.StockSummaryResponse, bool, error) {
	return nil, false, nil
}
func (NoopCache) Set(context.Context, *dto.StockSummaryResponse) error { return nil }
func (NoopCache) Invalidate(context.Context, ...string) error           { return nil }

// NoopMetrics Metrics vacío.
type NoopMetrics struct{}

func (NoopMetrics) MovementRecorded(string, int)    {}
func (NoopMetrics) MovementRejected(string, string) {}
