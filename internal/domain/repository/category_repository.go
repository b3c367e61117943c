package repository

import (
	"context"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByName compara sin distinguir mayúsculas; el llamador pasa el nombre ya normalizado.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	CountProducts(ctx context.Context, categoryID string) (int, error)
	Delete(ctx context.Context, id string) error
}
