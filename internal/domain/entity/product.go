package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (p. ej. un modelo de calzado).
// El stock no vive aquí: se lleva por talla y color en StockVariant.
type Product struct {
	ID            string
	Code          string // código único del catálogo
	Name          string
	Description   string
	Brand         string
	CategoryID    string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      int // umbral de stock mínimo (suma de variantes)
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
