package repository

import (
	"context"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// ProductFilter filtros para el listado de productos.
type ProductFilter struct {
	CategoryID string
	OnlyActive bool
	Limit      int
	Offset     int
}

// LowStockItem resultado crudo de un producto cuyo stock total está bajo el mínimo.
type LowStockItem struct {
	ProductID  string
	Code       string
	Name       string
	CategoryID string
	TotalStock int
	MinStock   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)

	// ListBelowMinStock devuelve los productos activos cuya suma de stock de variantes
	// es inferior a su stock mínimo, ordenados por mayor déficit primero.
	ListBelowMinStock(ctx context.Context) ([]LowStockItem, error)
}
