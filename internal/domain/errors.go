package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrSupplierNotFound   = errors.New("proveedor no encontrado")
	ErrCategoryNotFound   = errors.New("categoría no encontrada")
	ErrVariantNotFound    = errors.New("variante de producto no encontrada")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStockOverflow      = errors.New("el stock resultante excede el máximo permitido")
	ErrPersistence        = errors.New("error de persistencia")
)

// ValidationError describe un campo faltante o mal formado. Se compara con errors.Is(err, ErrInvalidInput).
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye el error de validación para un campo.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockError identifica la variante (talla, color) que impide registrar una salida.
// Err es ErrVariantNotFound o ErrInsufficientStock.
type StockError struct {
	ProductID string
	Size      string
	Color     string
	Requested int
	Available int
	Err       error
}

func (e *StockError) Error() string {
	if errors.Is(e.Err, ErrVariantNotFound) {
		return fmt.Sprintf("producto no encontrado: %s - %s", e.Size, e.Color)
	}
	return fmt.Sprintf("stock insuficiente para: %s - %s. Stock disponible: %d, solicitado: %d",
		e.Size, e.Color, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return e.Err }

// PersistenceError envuelve un fallo del almacén (conexión, constraint, commit).
// Se informa al cliente como error interno genérico; Op y Err solo van al log.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap expone tanto ErrPersistence como la causa original.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
