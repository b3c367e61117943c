package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
	"github.com/calzado-fabianne/almacen-api/pkg/taxid"
)

// SupplierUseCase alta y consulta de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra un proveedor activo. El tax_id se guarda normalizado, así
// "900.123.456-8" y "900123456-8" se detectan como el mismo proveedor (ErrDuplicate).
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	taxID, err := taxid.Normalize(in.TaxID)
	if err != nil {
		return nil, domain.NewValidationError("tax_id", err.Error())
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		TaxID:     taxID,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSupplierNotFound
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores paginados.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
