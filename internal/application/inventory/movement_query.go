package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// MovementQueryUseCase lectura de entradas y salidas ya registradas, con el nombre del
// usuario, del proveedor y de cada producto.
type MovementQueryUseCase struct {
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	supplierRepo repository.SupplierRepository,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
	}
}

// Get devuelve el movimiento con sus líneas; un ID de otro tipo se trata como inexistente.
func (uc *MovementQueryUseCase) Get(ctx context.Context, kind, id string) (*dto.MovementResponse, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Kind != kind {
		return nil, domain.ErrNotFound
	}
	out, err := uc.describe(ctx, uc.names(), m)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List lista movimientos del tipo indicado, más recientes primero.
func (uc *MovementQueryUseCase) List(ctx context.Context, kind string, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	f := repository.MovementFilter{Kind: kind, Limit: q.Limit, Offset: q.Offset}
	if q.From != "" {
		t, err := time.Parse(time.DateOnly, q.From)
		if err != nil {
			return nil, domain.NewValidationError("from", "formato esperado AAAA-MM-DD")
		}
		f.From = &t
	}
	if q.To != "" {
		t, err := time.Parse(time.DateOnly, q.To)
		if err != nil {
			return nil, domain.NewValidationError("to", "formato esperado AAAA-MM-DD")
		}
		end := t.AddDate(0, 0, 1)
		f.To = &end
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, domain.NewValidationError("from", fmt.Sprintf("debe ser anterior o igual a %s", q.To))
	}

	list, err := uc.movementRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	names := uc.names()
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		item, err := uc.describe(ctx, names, m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(items)},
	}, nil
}

func (uc *MovementQueryUseCase) names() *catalogNames {
	return newCatalogNames(uc.userRepo, uc.supplierRepo, uc.productRepo)
}

func (uc *MovementQueryUseCase) describe(ctx context.Context, names *catalogNames, m *entity.Movement) (dto.MovementResponse, error) {
	out := ToMovementResponse(m)
	var err error
	if out.UserName, err = names.user(ctx, m.UserID); err != nil {
		return out, err
	}
	if out.SupplierName, err = names.supplier(ctx, m.SupplierID); err != nil {
		return out, err
	}
	for i := range out.Lines {
		p, err := names.product(ctx, out.Lines[i].ProductID)
		if err != nil {
			return out, err
		}
		if p != nil {
			out.Lines[i].ProductCode = p.Code
			out.Lines[i].ProductName = p.Name
		}
	}
	return out, nil
}

// ToMovementResponse mapea el movimiento persistido a su DTO de salida, sin nombres de catálogo.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	lines := make([]dto.MovementLineResponse, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, dto.MovementLineResponse{
			ID:        l.ID,
			LineNo:    l.LineNo,
			ProductID: l.ProductID,
			Size:      l.Size,
			Color:     l.Color,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return dto.MovementResponse{
		ID:             m.ID,
		Kind:           m.Kind,
		DocumentNumber: m.DocumentNumber,
		DocumentType:   m.DocumentType,
		SupplierID:     m.SupplierID,
		Recipient:      m.Recipient,
		UserID:         m.UserID,
		Notes:          m.Notes,
		Total:          m.Total,
		CreatedAt:      m.CreatedAt,
		Lines:          lines,
	}
}
