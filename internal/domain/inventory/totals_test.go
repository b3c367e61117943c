package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

func TestLineSubtotal(t *testing.T) {
	got := LineSubtotal(6, decimal.RequireFromString("89.90"))
	assert.True(t, got.Equal(decimal.RequireFromString("539.40")), "got %s", got)

	assert.True(t, LineSubtotal(3, decimal.Zero).IsZero())
}

func TestApplyTotals_DescartaSubtotalesDelCliente(t *testing.T) {
	m := &entity.Movement{Lines: []entity.MovementLine{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("10.50"), Subtotal: decimal.NewFromInt(999)},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("4")},
	}}
	ApplyTotals(m)

	assert.True(t, m.Lines[0].Subtotal.Equal(decimal.RequireFromString("21")))
	assert.True(t, m.Lines[1].Subtotal.Equal(decimal.RequireFromString("12")))
	assert.True(t, m.Total.Equal(decimal.RequireFromString("33")), "total %s", m.Total)
}

func TestApplyTotals_SinLineas(t *testing.T) {
	m := &entity.Movement{}
	ApplyTotals(m)
	assert.True(t, m.Total.IsZero())
}

func TestRequestedByVariant_SumaLineasRepetidas(t *testing.T) {
	lines := []entity.MovementLine{
		{ProductID: "p1", Size: "42", Color: "negro", Quantity: 3},
		{ProductID: "p1", Size: "42", Color: "negro", Quantity: 2},
		{ProductID: "p1", Size: "40", Color: "negro", Quantity: 1},
	}
	got := RequestedByVariant(lines)

	assert.Len(t, got, 2)
	assert.Equal(t, 5, got[entity.VariantKey{ProductID: "p1", Size: "42", Color: "negro"}])
	assert.Equal(t, 1, got[entity.VariantKey{ProductID: "p1", Size: "40", Color: "negro"}])
}
