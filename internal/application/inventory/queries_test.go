package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory/inventorytest"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

type mapCache struct {
	data map[string]*dto.StockSummaryResponse
	gets int
	hits int
}

func (c *mapCache) Get(_ context.Context, id string) (*dto.StockSummaryResponse, bool, error) {
	c.gets++
	s, ok := c.data[id]
	if ok {
		c.hits++
	}
	return s, ok, nil
}

func (c *mapCache) Set(_ context.Context, s *dto.StockSummaryResponse) error {
	c.data[s.ProductID] = s
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(c.data, id)
	}
	return nil
}

func TestGetVariantStock_SumsVariants(t *testing.T) {
	store := inventorytest.NewStore()
	productID := store.AddProduct("SAN-010", 0)
	other := store.AddProduct("SAN-011", 0)
	store.SetStock(entity.VariantKey{ProductID: productID, Size: "36", Color: "beige"}, 4)
	store.SetStock(entity.VariantKey{ProductID: productID, Size: "37", Color: "beige"}, 0)
	store.SetStock(entity.VariantKey{ProductID: productID, Size: "37", Color: "azul"}, 9)
	store.SetStock(entity.VariantKey{ProductID: other, Size: "37", Color: "azul"}, 100)

	uc := inventory.NewStockQueryUseCase(store.Products(), store.Variants(), nil, zerolog.Nop())
	out, err := uc.GetVariantStock(context.Background(), productID)
	require.NoError(t, err)

	assert.Equal(t, productID, out.ProductID)
	assert.Equal(t, 13, out.TotalStock)
	require.Len(t, out.Variants, 3)
	assert.Equal(t, "36", out.Variants[0].Size)
	assert.Equal(t, "azul", out.Variants[1].Color)
}

func TestGetVariantStock_NoVariants(t *testing.T) {
	store := inventorytest.NewStore()
	productID := store.AddProduct("SAN-010", 0)

	out, err := inventory.NewStockQueryUseCase(store.Products(), store.Variants(), nil, zerolog.Nop()).
		GetVariantStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Zero(t, out.TotalStock)
	assert.Empty(t, out.Variants)
}

func TestGetVariantStock_UnknownProduct(t *testing.T) {
	store := inventorytest.NewStore()
	_, err := inventory.NewStockQueryUseCase(store.Products(), store.Variants(), nil, zerolog.Nop()).
		GetVariantStock(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetVariantStock_CacheInvalidatedByMovement(t *testing.T) {
	store := inventorytest.NewStore()
	productID := store.AddProduct("BOT-002", 0)
	userID := store.AddUser(entity.RoleAdmin, entity.UserStatusActive)
	cache := &mapCache{data: map[string]*dto.StockSummaryResponse{}}

	query := inventory.NewStockQueryUseCase(store.Products(), store.Variants(), cache, zerolog.Nop())
	engine := inventory.NewStockMovementEngine(store, store.Users(), store.Suppliers(), cache, nil, zerolog.Nop())
	ctx := context.Background()

	first, err := query.GetVariantStock(ctx, productID)
	require.NoError(t, err)
	assert.Zero(t, first.TotalStock)

	_, err = query.GetVariantStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-9", DocumentType: "guia", UserID: userID,
		Lines: []dto.MovementLineRequest{line(productID, "40", "negro", "3", "10")},
	})
	require.NoError(t, err)

	after, err := query.GetVariantStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.TotalStock)
	assert.Equal(t, 1, cache.hits)
}

func TestLowStock_OrdersByShortfall(t *testing.T) {
	store := inventorytest.NewStore()
	a := store.AddProduct("A", 10)
	b := store.AddProduct("B", 3)
	c := store.AddProduct("C", 2)
	store.SetStock(entity.VariantKey{ProductID: a, Size: "38", Color: "n"}, 4)
	store.SetStock(entity.VariantKey{ProductID: a, Size: "39", Color: "n"}, 4)
	store.SetStock(entity.VariantKey{ProductID: c, Size: "38", Color: "n"}, 5)
	_ = b

	items, err := inventory.NewLowStockUseCase(store.Products()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Code)
	assert.Equal(t, 3, items[0].Shortfall)
	assert.Equal(t, "A", items[1].Code)
	assert.Equal(t, 8, items[1].TotalStock)
	assert.Equal(t, 2, items[1].Shortfall)
}

func TestMovementQuery_GetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SetStock(f.key("38", "negro"), 10)

	entry, err := f.engine.RecordEntry(ctx, f.entry(line(f.productID, "38", "negro", "1", "10")))
	require.NoError(t, err)
	exit, err := f.engine.RecordExit(ctx, f.exit(line(f.productID, "38", "negro", "2", "10")))
	require.NoError(t, err)

	uc := inventory.NewMovementQueryUseCase(f.store.Movements(), f.store.Products(), f.store.Users(), f.store.Suppliers())

	got, err := uc.Get(ctx, entity.MovementKindEntry, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "E-001", got.DocumentNumber)
	assert.Equal(t, "Usuario", got.UserName)
	assert.Empty(t, got.SupplierName)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "38", got.Lines[0].Size)
	assert.Equal(t, "BOT-001", got.Lines[0].ProductCode)
	assert.Equal(t, "Producto BOT-001", got.Lines[0].ProductName)

	_, err = uc.Get(ctx, entity.MovementKindEntry, exit.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, entity.MovementKindExit, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, exit.ID, list.Items[0].ID)
	assert.Equal(t, "Usuario", list.Items[0].UserName)
	assert.Equal(t, "BOT-001", list.Items[0].Lines[0].ProductCode)
	assert.Equal(t, 20, list.Page.Limit)

	_, err = uc.List(ctx, entity.MovementKindExit, dto.MovementListQuery{From: "2024-05-10", To: "2024-05-01"})
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestMovementQuery_SupplierName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.entry(line(f.productID, "38", "negro", "1", "10"))
	in.SupplierID = f.store.AddSupplier("Curtiembre Andina")
	mov, err := f.engine.RecordEntry(ctx, in)
	require.NoError(t, err)

	got, err := inventory.NewMovementQueryUseCase(f.store.Movements(), f.store.Products(), f.store.Users(), f.store.Suppliers()).
		Get(ctx, entity.MovementKindEntry, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curtiembre Andina", got.SupplierName)
}

var errStoreDown = errors.New("conexión perdida")

type failingUsers struct{ repository.UserRepository }

func (failingUsers) GetByID(context.Context, string) (*entity.User, error) { return nil, errStoreDown }

type failingProducts struct{ repository.ProductRepository }

func (failingProducts) GetByID(context.Context, string) (*entity.Product, error) {
	return nil, errStoreDown
}

func TestMovementQuery_LookupFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mov, err := f.engine.RecordEntry(ctx, f.entry(line(f.productID, "38", "negro", "1", "10")))
	require.NoError(t, err)

	_, err = inventory.NewMovementQueryUseCase(f.store.Movements(), f.store.Products(), failingUsers{}, f.store.Suppliers()).
		Get(ctx, entity.MovementKindEntry, mov.ID)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = inventory.NewMovementQueryUseCase(f.store.Movements(), failingProducts{}, f.store.Users(), f.store.Suppliers()).
		List(ctx, entity.MovementKindEntry, dto.MovementListQuery{})
	assert.ErrorIs(t, err, errStoreDown)
}

type fakeVoucherGenerator struct{ got *inventory.Voucher }

func (g *fakeVoucherGenerator) GenerateVoucherPDF(_ context.Context, v *inventory.Voucher) ([]byte, error) {
	g.got = v
	return []byte("%PDF-1.3"), nil
}

func TestVoucherPDF_Download(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplierID := f.store.AddSupplier("Curtiembre Andina")
	in := f.entry(line(f.productID, "38", "negro", "2", "10"))
	in.DocumentNumber = "F001/123"
	in.SupplierID = supplierID
	mov, err := f.engine.RecordEntry(ctx, in)
	require.NoError(t, err)

	gen := &fakeVoucherGenerator{}
	uc := inventory.NewVoucherPDFUseCase(f.store.Movements(), f.store.Products(), f.store.Users(), f.store.Suppliers(), gen)

	pdf, filename, err := uc.Download(ctx, entity.MovementKindEntry, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	assert.Equal(t, "entrada_F001_123.pdf", filename)
	require.NotNil(t, gen.got)
	assert.Equal(t, "Curtiembre Andina", gen.got.SupplierName)
	assert.Equal(t, "Usuario", gen.got.UserName)
	require.Len(t, gen.got.Lines, 1)
	assert.Equal(t, "BOT-001", gen.got.Lines[0].ProductCode)

	_, _, err = uc.Download(ctx, entity.MovementKindExit, mov.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoucherPDF_LookupFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mov, err := f.engine.RecordEntry(ctx, f.entry(line(f.productID, "38", "negro", "2", "10")))
	require.NoError(t, err)

	gen := &fakeVoucherGenerator{}
	_, _, err = inventory.NewVoucherPDFUseCase(f.store.Movements(), f.store.Products(), failingUsers{}, f.store.Suppliers(), gen).
		Download(ctx, entity.MovementKindEntry, mov.ID)
	assert.ErrorIs(t, err, errStoreDown)

	_, _, err = inventory.NewVoucherPDFUseCase(f.store.Movements(), failingProducts{}, f.store.Users(), f.store.Suppliers(), gen).
		Download(ctx, entity.MovementKindEntry, mov.ID)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, gen.got)
}
