package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// VoucherLine línea del comprobante con los datos de catálogo del producto.
type VoucherLine struct {
	entity.MovementLine
	ProductCode string
	ProductName string
}

// Voucher datos completos para imprimir una entrada o salida.
type Voucher struct {
	Movement     *entity.Movement
	UserName     string
	SupplierName string // solo entradas con proveedor
	Lines        []VoucherLine
}

// VoucherPDFGenerator puerto de salida para renderizar el comprobante.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, v *Voucher) ([]byte, error)
}

// VoucherPDFUseCase genera el comprobante imprimible de un movimiento.
type VoucherPDFUseCase struct {
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	generator    VoucherPDFGenerator
}

// NewVoucherPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewVoucherPDFUseCase(
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	supplierRepo repository.SupplierRepository,
	generator VoucherPDFGenerator,
) *VoucherPDFUseCase {
	return &VoucherPDFUseCase{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
		generator:    generator,
	}
}

// Download carga el movimiento, lo enriquece con nombres de producto, usuario y proveedor
// y devuelve (pdfBytes, filename). Un ID de otro tipo devuelve domain.ErrNotFound; un fallo
// al consultar los nombres se devuelve en lugar de imprimir el comprobante incompleto.
func (uc *VoucherPDFUseCase) Download(ctx context.Context, kind, id string) ([]byte, string, error) {
	mov, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener movimiento: %w", err)
	}
	if mov == nil || mov.Kind != kind {
		return nil, "", domain.ErrNotFound
	}

	names := newCatalogNames(uc.userRepo, uc.supplierRepo, uc.productRepo)
	v := &Voucher{Movement: mov, Lines: make([]VoucherLine, 0, len(mov.Lines))}
	if v.UserName, err = names.user(ctx, mov.UserID); err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}
	if v.SupplierName, err = names.supplier(ctx, mov.SupplierID); err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}
	for _, l := range mov.Lines {
		p, err := names.product(ctx, l.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: %w", err)
		}
		vl := VoucherLine{MovementLine: l, ProductName: "Producto " + l.ProductID}
		if p != nil {
			vl.ProductCode = p.Code
			vl.ProductName = p.Name
		}
		v.Lines = append(v.Lines, vl)
	}

	pdfBytes, err := uc.generator.GenerateVoucherPDF(ctx, v)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	prefix := "entrada"
	if kind == entity.MovementKindExit {
		prefix = "salida"
	}
	return pdfBytes, fmt.Sprintf("%s_%s.pdf", prefix, sanitizeFilename(mov.DocumentNumber)), nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
