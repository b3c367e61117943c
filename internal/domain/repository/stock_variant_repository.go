package repository

import (
	"context"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// StockVariantRepository define el puerto para los contadores de stock por (producto, talla, color).
// Usado dentro de transacciones para garantizar consistencia.
type StockVariantRepository interface {
	// Find busca por coincidencia exacta de la terna. Devuelve (nil, nil) si no existe.
	Find(ctx context.Context, key entity.VariantKey) (*entity.StockVariant, error)
	// FindForUpdate igual que Find pero bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	FindForUpdate(ctx context.Context, key entity.VariantKey) (*entity.StockVariant, error)
	// Increment suma qty a la variante, creándola con stock = qty si no existía (upsert atómico).
	Increment(ctx context.Context, key entity.VariantKey, qty int) (*entity.StockVariant, error)
	// Decrement resta qty solo si el stock alcanza; devuelve ErrInsufficientStock si no.
	Decrement(ctx context.Context, variantID string, qty int) (*entity.StockVariant, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockVariant, error)
}
