package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory/inventorytest"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
)

func TestProductCreateAndUpdate(t *testing.T) {
	store := inventorytest.NewStore()
	categories := newMemCategoryRepo()
	ctx := context.Background()
	cat, err := NewCategoryUseCase(categories).Create(ctx, dto.CreateCategoryRequest{Name: "Botines"})
	require.NoError(t, err)

	uc := NewProductUseCase(store.Products(), categories, store.Variants())

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Code: " BOT-100 ", Name: "Botín Chelsea", Brand: "Fabianne", CategoryID: cat.ID,
		PurchasePrice: decimal.RequireFromString("45.00"), SalePrice: decimal.RequireFromString("89.90"), MinStock: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, "BOT-100", p.Code)
	assert.True(t, p.Active)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "BOT-100", Name: "Otro", CategoryID: cat.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "BOT-101", Name: "Otro", CategoryID: "sin-categoria"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	price := decimal.RequireFromString("99.90")
	inactive := false
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{SalePrice: &price, Active: &inactive})
	require.NoError(t, err)
	assert.True(t, price.Equal(out.SalePrice))
	assert.False(t, out.Active)
	assert.Equal(t, "Botín Chelsea", out.Name)
	assert.Equal(t, 6, out.MinStock)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	list, err := uc.List(ctx, dto.ProductListQuery{CategoryID: cat.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Botines", list.Items[0].CategoryName)
	assert.Nil(t, list.Items[0].Variants)
	assert.Nil(t, list.Items[0].TotalStock)
}

func TestProductGetByID_IncludesCategoryAndVariants(t *testing.T) {
	store := inventorytest.NewStore()
	categories := newMemCategoryRepo()
	ctx := context.Background()
	cat, err := NewCategoryUseCase(categories).Create(ctx, dto.CreateCategoryRequest{Name: "Sandalias"})
	require.NoError(t, err)

	uc := NewProductUseCase(store.Products(), categories, store.Variants())
	p, err := uc.Create(ctx, dto.CreateProductRequest{Code: "SAN-001", Name: "Sandalia Playa", CategoryID: cat.ID})
	require.NoError(t, err)

	empty, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Variants)
	require.NotNil(t, empty.TotalStock)
	assert.Zero(t, *empty.TotalStock)

	store.SetStock(entity.VariantKey{ProductID: p.ID, Size: "36", Color: "beige"}, 4)
	store.SetStock(entity.VariantKey{ProductID: p.ID, Size: "37", Color: "beige"}, 7)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sandalias", got.CategoryName)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, "36", got.Variants[0].Size)
	assert.Equal(t, 4, got.Variants[0].Stock)
	require.NotNil(t, got.TotalStock)
	assert.Equal(t, 11, *got.TotalStock)
}
