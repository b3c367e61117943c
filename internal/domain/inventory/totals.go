package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// LineSubtotal calcula el subtotal de una línea (servicio de dominio).
// Subtotal = Cantidad * PrecioUnitario
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice)
}

// ApplyTotals recalcula el subtotal de cada línea y el total del movimiento.
// Los subtotales recibidos del cliente se descartan siempre.
func ApplyTotals(m *entity.Movement) {
	total := decimal.Zero
	for i := range m.Lines {
		m.Lines[i].Subtotal = LineSubtotal(m.Lines[i].Quantity, m.Lines[i].UnitPrice)
		total = total.Add(m.Lines[i].Subtotal)
	}
	m.Total = total
}

// RequestedByVariant suma las cantidades pedidas por variante. Una salida con dos líneas
// de la misma talla y color debe validarse contra la suma, no línea a línea.
func RequestedByVariant(lines []entity.MovementLine) map[entity.VariantKey]int {
	out := make(map[entity.VariantKey]int, len(lines))
	for _, l := range lines {
		out[l.VariantKey()] += l.Quantity
	}
	return out
}
