package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre el stock por variante.
type StockQueryUseCase struct {
	productRepo repository.ProductRepository
	variantRepo repository.StockVariantRepository
	cache       StockCache
	log         zerolog.Logger
}

// NewStockQueryUseCase construye el caso de uso. cache puede ser nil.
func NewStockQueryUseCase(
	productRepo repository.ProductRepository,
	variantRepo repository.StockVariantRepository,
	cache StockCache,
	log zerolog.Logger,
) *StockQueryUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &StockQueryUseCase{productRepo: productRepo, variantRepo: variantRepo, cache: cache, log: log}
}

// GetVariantStock devuelve las variantes del producto y la suma de su stock.
func (uc *StockQueryUseCase) GetVariantStock(ctx context.Context, productID string) (*dto.StockSummaryResponse, error) {
	if cached, ok, err := uc.cache.Get(ctx, productID); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("leer caché de stock")
	} else if ok {
		return cached, nil
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("stock: obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	variants, err := uc.variantRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("stock: listar variantes: %w", err)
	}
	out := &dto.StockSummaryResponse{ProductID: productID, Variants: make([]dto.VariantStockDTO, 0, len(variants))}
	for _, v := range variants {
		out.Variants = append(out.Variants, dto.VariantStockDTO{ID: v.ID, Size: v.Size, Color: v.Color, Stock: v.Stock})
		out.TotalStock += v.Stock
	}

	if err := uc.cache.Set(ctx, out); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("guardar caché de stock")
	}
	return out, nil
}
