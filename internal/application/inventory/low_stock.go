package inventory

import (
	"context"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// LowStockUseCase reporte de productos cuyo stock total (suma de variantes) está bajo el mínimo.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo}
}

// List devuelve los productos con faltante, el más urgente primero.
func (uc *LowStockUseCase) List(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	raw, err := uc.productRepo.ListBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(raw))
	for _, it := range raw {
		out = append(out, dto.LowStockItemDTO{
			ProductID:  it.ProductID,
			Code:       it.Code,
			Name:       it.Name,
			CategoryID: it.CategoryID,
			TotalStock: it.TotalStock,
			MinStock:   it.MinStock,
			Shortfall:  it.MinStock - it.TotalStock,
		})
	}
	return out, nil
}
