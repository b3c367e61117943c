// Package pdf genera el comprobante imprimible de entradas y salidas de bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + tipo de comprobante │ N° documento + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Proveedor o destinatario / Registrado por / Notas    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Talla | Color | Cant | P.Unit | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / TOTAL                                   │
//	│  FIRMAS: Entrega / Recibe                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 235, Green: 241, Blue: 247}
)

var _ inventory.VoucherPDFGenerator = (*MarotoVoucherGenerator)(nil)

// MarotoVoucherGenerator implementa inventory.VoucherPDFGenerator usando Maroto v2.
type MarotoVoucherGenerator struct {
	companyName string
}

// NewMarotoVoucherGenerator construye el generador; companyName va en la cabecera.
func NewMarotoVoucherGenerator(companyName string) *MarotoVoucherGenerator {
	return &MarotoVoucherGenerator{companyName: companyName}
}

// GenerateVoucherPDF genera el PDF y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateVoucherPDF(_ context.Context, v *inventory.Voucher) ([]byte, error) {
	if v == nil || v.Movement == nil {
		return nil, fmt.Errorf("pdf: comprobante vacío")
	}
	title := voucherTitle(v.Movement.Kind)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title+" "+v.Movement.DocumentNumber, true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.companyName, title, v.Movement))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(v))
	if v.Movement.Notes != "" {
		m.AddRows(notesRow(v.Movement.Notes))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(v.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(v))

	m.AddRows(row.New(20))
	m.AddRows(signaturesRow(v.Movement.Kind))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func voucherTitle(kind string) string {
	if kind == entity.MovementKindExit {
		return "COMPROBANTE DE SALIDA"
	}
	return "COMPROBANTE DE ENTRADA"
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y tipo + número + fecha (der).
func headerRow(company, title string, mov *entity.Movement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Almacén"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Control de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(mov.DocumentNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+mov.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: contraparte del movimiento y usuario que lo registró.
func partiesRow(v *inventory.Voucher) core.Row {
	mov := v.Movement
	label, party := "PROVEEDOR", nonEmpty(v.SupplierName, "-")
	if mov.Kind == entity.MovementKindExit {
		label, party = "DESTINATARIO", nonEmpty(mov.Recipient, "-")
	}
	return row.New(14).Add(
		col.New(6).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(party, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("REGISTRADO POR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tipo: %s",
				nonEmpty(v.UserName, mov.UserID),
				nonEmpty(mov.DocumentType, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func notesRow(notes string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Notas: "+notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Talla", 1, align.Center),
		h("Color", 1, align.Center),
		h("Cant.", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea, con fondo alterno.
func tableDetailRows(lines []inventory.VoucherLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		r := row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(l.ProductCode, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Size, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(l.Color, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.UnitPrice.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.Subtotal.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// totalsRow: unidades y total alineados a la derecha.
func totalsRow(v *inventory.Voucher) core.Row {
	units := 0
	for _, l := range v.Lines {
		units += l.Quantity
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades:"),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprint(units), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New("$"+formatMoney(v.Movement.Total.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

func signaturesRow(kind string) core.Row {
	left, right := "Entrega (proveedor)", "Recibe (bodega)"
	if kind == entity.MovementKindExit {
		left, right = "Entrega (bodega)", "Recibe"
	}
	sig := func(s string) core.Col {
		return col.New(5).Add(
			line.New(props.Line{Color: colorGray, Thickness: 0.3}),
			text.New(s, props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)
	}
	return row.New(12).Add(sig(left), col.New(2), sig(right))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles y coma decimal en un string numérico.
// Ej: "25000.50" → "25.000,50", "1000000" → "1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+1)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return sign + string(buf)
}
