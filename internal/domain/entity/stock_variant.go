package entity

import "time"

// StockVariant es el contador de stock de una combinación (producto, talla, color).
// Única por esa terna; Stock nunca es negativo.
type StockVariant struct {
	ID        string
	ProductID string
	Size      string
	Color     string
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VariantKey identifica una variante sin conocer su ID.
type VariantKey struct {
	ProductID string
	Size      string
	Color     string
}

// Key devuelve la terna que identifica a la variante.
func (v *StockVariant) Key() VariantKey {
	return VariantKey{ProductID: v.ProductID, Size: v.Size, Color: v.Color}
}

// Less ordena claves por producto, talla y color (orden de bloqueo determinista).
func (k VariantKey) Less(o VariantKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	if k.Size != o.Size {
		return k.Size < o.Size
	}
	return k.Color < o.Color
}
