package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
)

var _ inventory.StockCache = (*RedisStockCache)(nil)

const stockKeyPrefix = "almacen:stock:"

// RedisStockCache guarda el resumen de stock por producto con TTL corto.
// El motor invalida las claves tras cada commit; el TTL acota lecturas viejas si una invalidación falla.
type RedisStockCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStockCache construye la caché sobre un cliente ya conectado.
func NewRedisStockCache(rdb *redis.Client, ttl time.Duration) *RedisStockCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisStockCache{rdb: rdb, ttl: ttl}
}

func stockKey(productID string) string { return stockKeyPrefix + productID }

// Get devuelve (resumen, true, nil) en un acierto y (nil, false, nil) si la clave no existe.
func (c *RedisStockCache) Get(ctx context.Context, productID string) (*dto.StockSummaryResponse, bool, error) {
	raw, err := c.rdb.Get(ctx, stockKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var out dto.StockSummaryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("decode stock summary: %w", err)
	}
	return &out, true, nil
}

// Set guarda el resumen con el TTL configurado.
func (c *RedisStockCache) Set(ctx context.Context, summary *dto.StockSummaryResponse) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode stock summary: %w", err)
	}
	if err := c.rdb.Set(ctx, stockKey(summary.ProductID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate borra las claves de los productos indicados.
func (c *RedisStockCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = stockKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
