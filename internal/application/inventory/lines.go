package inventory

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	invdomain "github.com/calzado-fabianne/almacen-api/internal/domain/inventory"
)

const maxPriceScale = 2

// Límites de las columnas: quantity INTEGER, unit_price NUMERIC(12,2),
// subtotal y total NUMERIC(14,2).
var (
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
	priceLimit  = decimal.New(1, 10)
	amountLimit = decimal.New(1, 12)
)

// ParseLines convierte las líneas recibidas en líneas de dominio numeradas desde 1.
// Cantidad: entera, mayor que cero y dentro de rango. Precio: no negativo, menor que 1e10
// y con máximo dos decimales. Subtotal y total del documento deben ser menores que 1e12.
// No asigna subtotales (ver inventory.ApplyTotals).
func ParseLines(in []dto.MovementLineRequest) ([]entity.MovementLine, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("lines", "debe incluir al menos una línea")
	}
	out := make([]entity.MovementLine, 0, len(in))
	total := decimal.Zero
	for i, l := range in {
		field := func(name string) string { return "lines[" + strconv.Itoa(i) + "]." + name }

		switch {
		case strings.TrimSpace(l.ProductID) == "":
			return nil, domain.NewValidationError(field("product_id"), "es obligatorio")
		case strings.TrimSpace(l.Size) == "":
			return nil, domain.NewValidationError(field("size"), "es obligatorio")
		case strings.TrimSpace(l.Color) == "":
			return nil, domain.NewValidationError(field("color"), "es obligatorio")
		case l.Quantity == nil:
			return nil, domain.NewValidationError(field("quantity"), "es obligatorio")
		case l.UnitPrice == nil:
			return nil, domain.NewValidationError(field("unit_price"), "es obligatorio")
		}

		qty := *l.Quantity
		if !qty.Equal(qty.Truncate(0)) {
			return nil, domain.NewValidationError(field("quantity"), "debe ser un número entero")
		}
		if !qty.IsPositive() {
			return nil, domain.NewValidationError(field("quantity"), "debe ser mayor que cero")
		}
		if qty.GreaterThan(maxQuantity) {
			return nil, domain.NewValidationError(field("quantity"), "fuera de rango")
		}

		price := *l.UnitPrice
		if price.IsNegative() {
			return nil, domain.NewValidationError(field("unit_price"), "no puede ser negativo")
		}
		if !price.Equal(price.Round(maxPriceScale)) {
			return nil, domain.NewValidationError(field("unit_price"), "admite como máximo dos decimales")
		}
		if !price.LessThan(priceLimit) {
			return nil, domain.NewValidationError(field("unit_price"), "fuera de rango")
		}

		subtotal := invdomain.LineSubtotal(int(qty.IntPart()), price)
		if !subtotal.LessThan(amountLimit) {
			return nil, domain.NewValidationError(field("subtotal"), "excede el máximo permitido")
		}
		total = total.Add(subtotal)
		if !total.LessThan(amountLimit) {
			return nil, domain.NewValidationError("lines", "el total del documento excede el máximo permitido")
		}

		out = append(out, entity.MovementLine{
			LineNo:    i + 1,
			ProductID: l.ProductID,
			Size:      l.Size,
			Color:     l.Color,
			Quantity:  int(qty.IntPart()),
			UnitPrice: price,
		})
	}
	return out, nil
}
