package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	variantRepo  repository.StockVariantRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	variantRepo repository.StockVariantRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, variantRepo: variantRepo}
}

// Create crea un producto tras comprobar que el código no existe y la categoría sí.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Brand:         strings.TrimSpace(in.Brand),
		CategoryID:    in.CategoryID,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		MinStock:      in.MinStock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID con el nombre de su categoría y el stock por variante.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	out := toProductResponse(product)
	if out.CategoryName, err = uc.categoryName(ctx, product.CategoryID, nil); err != nil {
		return nil, err
	}

	variants, err := uc.variantRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("producto: listar variantes: %w", err)
	}
	total := 0
	out.Variants = make([]dto.VariantStockDTO, 0, len(variants))
	for _, v := range variants {
		out.Variants = append(out.Variants, dto.VariantStockDTO{ID: v.ID, Size: v.Size, Color: v.Color, Stock: v.Stock})
		total += v.Stock
	}
	out.TotalStock = &total
	return out, nil
}

// Update aplica solo los campos presentes en la petición.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewValidationError("code", "no puede estar vacío")
		}
		if code != product.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
			product.Code = code
		}
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Brand != nil {
		product.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtro opcional por categoría.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{CategoryID: q.CategoryID, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		item := toProductResponse(p)
		if item.CategoryName, err = uc.categoryName(ctx, p.CategoryID, names); err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(items)},
	}, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// categoryName devuelve "" si la categoría no existe. seen evita repetir consultas en un listado.
func (uc *ProductUseCase) categoryName(ctx context.Context, categoryID string, seen map[string]string) (string, error) {
	if name, ok := seen[categoryID]; ok {
		return name, nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return "", fmt.Errorf("producto: obtener categoría: %w", err)
	}
	var name string
	if c != nil {
		name = c.Name
	}
	if seen != nil {
		seen[categoryID] = name
	}
	return name, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		MinStock:      p.MinStock,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
