package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
)

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestParseLines_Valid(t *testing.T) {
	lines, err := ParseLines([]dto.MovementLineRequest{
		{ProductID: "p1", Size: "38", Color: "negro", Quantity: d("2"), UnitPrice: d("19.90")},
		{ProductID: "p1", Size: "39", Color: "negro", Quantity: d("5.000"), UnitPrice: d("0")},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].LineNo)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, d("19.90").Equal(lines[0].UnitPrice))
	assert.Equal(t, 2, lines[1].LineNo)
	assert.Equal(t, 5, lines[1].Quantity)
	assert.True(t, lines[1].Subtotal.IsZero())
}

func TestParseLines_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		line  dto.MovementLineRequest
		field string
	}{
		{"fuera de rango", dto.MovementLineRequest{ProductID: "p1", Size: "38", Color: "n", Quantity: d("3000000000"), UnitPrice: d("1")}, "lines[0].quantity"},
		{"tres decimales", dto.MovementLineRequest{ProductID: "p1", Size: "38", Color: "n", Quantity: d("1"), UnitPrice: d("1.005")}, "lines[0].unit_price"},
		{"sin color", dto.MovementLineRequest{ProductID: "p1", Size: "38", Color: " ", Quantity: d("1"), UnitPrice: d("1")}, "lines[0].color"},
		{"sin producto", dto.MovementLineRequest{Size: "38", Color: "n", Quantity: d("1"), UnitPrice: d("1")}, "lines[0].product_id"},
		{"sin cantidad", dto.MovementLineRequest{ProductID: "p1", Size: "38", Color: "n", UnitPrice: d("1")}, "lines[0].quantity"},
		{"precio fuera de rango", dto.MovementLineRequest{ProductID: "p1", Size: "38", Color: "n", Quantity: d("1"), UnitPrice: d("10000000000")}, "lines[0].unit_price"},
		{"subtotal fuera de rango", dto.MovementLineRequest{ProductID: "p1", Size: "38", Color: "n", Quantity: d("2000000000"), UnitPrice: d("9999999999.99")}, "lines[0].subtotal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLines([]dto.MovementLineRequest{tt.line})
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestParseLines_ReportsLineIndex(t *testing.T) {
	_, err := ParseLines([]dto.MovementLineRequest{
		{ProductID: "p1", Size: "38", Color: "n", Quantity: d("1"), UnitPrice: d("1")},
		{ProductID: "p1", Size: "38", Color: "n", Quantity: d("0"), UnitPrice: d("1")},
	})
	require.Error(t, err)
	assert.Equal(t, "lines[1].quantity: debe ser mayor que cero", err.Error())
}

func TestParseLines_AmountLimits(t *testing.T) {
	_, err := ParseLines([]dto.MovementLineRequest{
		{ProductID: "p1", Size: "38", Color: "n", Quantity: d("1"), UnitPrice: d("9999999999.99")},
		{ProductID: "p1", Size: "39", Color: "n", Quantity: d("99"), UnitPrice: d("9999999999.99")},
	})
	require.NoError(t, err)

	_, err = ParseLines([]dto.MovementLineRequest{
		{ProductID: "p1", Size: "38", Color: "n", Quantity: d("60"), UnitPrice: d("9999999999.99")},
		{ProductID: "p1", Size: "39", Color: "n", Quantity: d("60"), UnitPrice: d("9999999999.99")},
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "lines", ve.Field)
}
