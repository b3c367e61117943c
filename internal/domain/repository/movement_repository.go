package repository

import (
	"context"
	"time"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// MovementFilter filtros para listar entradas o salidas.
type MovementFilter struct {
	Kind   string // ENTRY | EXIT
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia para movimientos y sus líneas.
type MovementRepository interface {
	// Create inserta la cabecera y todas sus líneas; asigna IDs faltantes.
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve el movimiento con sus líneas, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List devuelve cabeceras con sus líneas, más recientes primero.
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
}
