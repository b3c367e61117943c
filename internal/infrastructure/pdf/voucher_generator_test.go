package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"999":      "999",
		"25000":    "25.000",
		"1000000":  "1.000.000",
		"25000.50": "25.000,50",
		"-1234.00": "-1.234,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), in)
	}
}

func TestGenerateVoucherPDF(t *testing.T) {
	mov := &entity.Movement{
		ID:             "m-1",
		Kind:           entity.MovementKindExit,
		DocumentNumber: "SAL-001",
		DocumentType:   "venta",
		Recipient:      "Tienda Centro",
		UserID:         "u-1",
		Total:          decimal.RequireFromString("240000"),
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	line := entity.MovementLine{
		LineNo: 1, ProductID: "p-1", Size: "38", Color: "negro", Quantity: 2,
		UnitPrice: decimal.RequireFromString("120000"), Subtotal: decimal.RequireFromString("240000"),
	}
	mov.Lines = []entity.MovementLine{line}
	v := &inventory.Voucher{
		Movement: mov,
		UserName: "Bodeguero",
		Lines:    []inventory.VoucherLine{{MovementLine: line, ProductCode: "ZP-01", ProductName: "Zapato Oxford"}},
	}

	out, err := NewMarotoVoucherGenerator("Calzado Fabianne").GenerateVoucherPDF(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateVoucherPDF_Empty(t *testing.T) {
	_, err := NewMarotoVoucherGenerator("x").GenerateVoucherPDF(context.Background(), nil)
	assert.Error(t, err)
}
