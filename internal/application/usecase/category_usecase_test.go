package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

type memCategoryRepo struct {
	byID     map[string]*entity.Category
	products map[string]int
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{byID: map[string]*entity.Category{}, products: map[string]int{}}
}

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range r.byID {
		if CategoryKey(c.Name) == CategoryKey(name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) List(context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCategoryRepo) CountProducts(_ context.Context, id string) (int, error) {
	return r.products[id], nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, CategoryKey("Botines"), CategoryKey("  BOTINES "))
	assert.Equal(t, CategoryKey("Calzado  de   niño"), CategoryKey("calzado de NIÑO"))
	assert.NotEqual(t, CategoryKey("Botines"), CategoryKey("Botas"))
}

func TestCategoryCreate(t *testing.T) {
	repo := newMemCategoryRepo()
	uc := NewCategoryUseCase(repo)
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "  Sandalias  de verano "})
	require.NoError(t, err)
	assert.Equal(t, "Sandalias de verano", c.Name)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "SANDALIAS DE VERANO"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "   "})
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestCategoryUpdate(t *testing.T) {
	repo := newMemCategoryRepo()
	uc := NewCategoryUseCase(repo)
	ctx := context.Background()
	botines, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Botines"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Sandalias"})
	require.NoError(t, err)

	name := "BOTINES"
	out, err := uc.Update(ctx, botines.ID, dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "BOTINES", out.Name)

	name = "sandalias"
	_, err = uc.Update(ctx, botines.ID, dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCategoryDelete_RefusedWithProducts(t *testing.T) {
	repo := newMemCategoryRepo()
	uc := NewCategoryUseCase(repo)
	ctx := context.Background()
	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Botines"})
	require.NoError(t, err)
	repo.products[c.ID] = 3

	err = uc.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "3 producto(s)")

	repo.products[c.ID] = 0
	require.NoError(t, uc.Delete(ctx, c.ID))
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrCategoryNotFound)
}
