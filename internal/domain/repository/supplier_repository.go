package repository

import (
	"context"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
}
