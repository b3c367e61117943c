package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindEntry = "ENTRY" // entrada: suma stock
	MovementKindExit  = "EXIT"  // salida: resta stock
)

// Movement es el documento de una entrada o salida de mercancía con sus líneas.
// Se crea una sola vez y no se modifica ni elimina.
type Movement struct {
	ID             string
	Kind           string // ENTRY | EXIT
	DocumentNumber string
	DocumentType   string // tipo de documento (entrada) o tipo de salida
	SupplierID     string // solo entradas; vacío si no aplica
	Recipient      string // solo salidas; vacío si no aplica
	UserID         string
	Notes          string
	Total          decimal.Decimal
	CreatedAt      time.Time
	Lines          []MovementLine
}

// MovementLine es una línea del documento; pertenece exclusivamente a su Movement.
type MovementLine struct {
	ID         string
	MovementID string
	LineNo     int
	ProductID  string
	Size       string
	Color      string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// VariantKey devuelve la variante a la que apunta la línea.
func (l MovementLine) VariantKey() VariantKey {
	return VariantKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}
