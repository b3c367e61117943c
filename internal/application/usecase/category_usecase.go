package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías. Los nombres son únicos sin distinguir mayúsculas.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// CategoryKey clave de comparación de nombres (case folding Unicode: "BOTINES" == "botines").
func CategoryKey(name string) string {
	return cases.Fold().String(CleanCategoryName(name))
}

// CleanCategoryName recorta y colapsa espacios internos.
func CleanCategoryName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Create crea una categoría con nombre no vacío y no repetido.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := CleanCategoryName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if err := uc.checkUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return toCategoryResponse(c), nil
}

// List lista todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Update cambia nombre y/o descripción. Renombrar a la misma clave (solo mayúsculas) está permitido.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}
	if in.Name != nil {
		name := CleanCategoryName(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "es obligatorio")
		}
		if CategoryKey(name) != CategoryKey(c.Name) {
			if err := uc.checkUniqueName(ctx, name, c.ID); err != nil {
				return nil, err
			}
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Delete elimina la categoría si ningún producto la referencia.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}
	n, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: la categoría tiene %d producto(s) asociado(s)", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CategoryUseCase) checkUniqueName(ctx context.Context, name, selfID string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe una categoría con el nombre %q", domain.ErrDuplicate, existing.Name)
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
