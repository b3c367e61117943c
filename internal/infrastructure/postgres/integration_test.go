//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real (testcontainers).
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/infrastructure/postgres"
	"github.com/calzado-fabianne/almacen-api/pkg/config"
)

type pgEnv struct {
	pool      *pgxpool.Pool
	engine    *inventory.StockMovementEngine
	variants  *postgres.StockVariantRepo
	movements *postgres.MovementRepo
	userID    string
	productID string
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("almacen_test"),
		tcpostgres.WithUsername("almacen"),
		tcpostgres.WithPassword("almacen"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Migrate(ctx, pool), "las migraciones deben ser idempotentes")

	now := time.Now().UTC()
	user := &entity.User{ID: uuid.NewString(), Email: "bodega@almacen.test", PasswordHash: "x", Name: "Bodega",
		Role: entity.RoleBodeguero, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, user))

	cat := &entity.Category{ID: uuid.NewString(), Name: "Botines", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewCategoryRepository(pool).Create(ctx, cat))

	product := &entity.Product{ID: uuid.NewString(), Code: "BOT-001", Name: "Botín Chelsea", CategoryID: cat.ID,
		PurchasePrice: decimal.NewFromInt(80000), SalePrice: decimal.NewFromInt(120000), MinStock: 5,
		Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, product))

	return &pgEnv{
		pool:      pool,
		engine:    inventory.NewStockMovementEngine(postgres.NewTxRunner(pool), postgres.NewUserRepository(pool), postgres.NewSupplierRepository(pool), nil, nil, zerolog.Nop()),
		variants:  postgres.NewStockVariantRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		userID:    user.ID,
		productID: product.ID,
	}
}

func qty(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func (e *pgEnv) line(size, color string, n int64) dto.MovementLineRequest {
	return dto.MovementLineRequest{ProductID: e.productID, Size: size, Color: color, Quantity: qty(n), UnitPrice: qty(1000)}
}

func (e *pgEnv) stock(t *testing.T, size, color string) int {
	t.Helper()
	v, err := e.variants.Find(context.Background(), entity.VariantKey{ProductID: e.productID, Size: size, Color: color})
	require.NoError(t, err)
	if v == nil {
		return -1
	}
	return v.Stock
}

func TestPostgres_ConcurrentEntriesCreateSingleVariant(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
				DocumentNumber: "E-" + uuid.NewString()[:8], DocumentType: "factura", UserID: env.userID,
				Lines: []dto.MovementLineRequest{env.line("40", "café", 1)},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, n, env.stock(t, "40", "café"))
	variants, err := env.variants.ListByProduct(ctx, env.productID)
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestPostgres_ConcurrentExitsNeverOversell(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	_, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-1", DocumentType: "factura", UserID: env.userID,
		Lines: []dto.MovementLineRequest{env.line("38", "negro", 5)},
	})
	require.NoError(t, err)

	const n = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, short int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.engine.RecordExit(ctx, inventory.ExitInput{
				DocumentNumber: "S-" + uuid.NewString()[:8], ExitType: "venta", UserID: env.userID,
				Lines: []dto.MovementLineRequest{env.line("38", "negro", 1)},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, n-5, short)
	assert.Equal(t, 0, env.stock(t, "38", "negro"))

	exits, err := env.movements.List(ctx, repositoryFilter(entity.MovementKindExit))
	require.NoError(t, err)
	assert.Len(t, exits, 5)
}

func TestPostgres_ExitIsAllOrNothing(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	_, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-1", DocumentType: "factura", UserID: env.userID,
		Lines: []dto.MovementLineRequest{env.line("38", "negro", 5), env.line("39", "negro", 1)},
	})
	require.NoError(t, err)

	_, err = env.engine.RecordExit(ctx, inventory.ExitInput{
		DocumentNumber: "S-1", ExitType: "venta", UserID: env.userID,
		Lines: []dto.MovementLineRequest{env.line("38", "negro", 2), env.line("39", "negro", 3)},
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "39", stockErr.Size)
	assert.Equal(t, 1, stockErr.Available)

	assert.Equal(t, 5, env.stock(t, "38", "negro"))
	assert.Equal(t, 1, env.stock(t, "39", "negro"))
	exits, err := env.movements.List(ctx, repositoryFilter(entity.MovementKindExit))
	require.NoError(t, err)
	assert.Empty(t, exits)
}

func TestPostgres_MovementRoundTrip(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	mov, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-9", DocumentType: "factura", UserID: env.userID, Notes: "primera compra",
		Lines: []dto.MovementLineRequest{env.line("38", "negro", 2), env.line("38", "negro", 3)},
	})
	require.NoError(t, err)

	got, err := env.movements.GetByID(ctx, mov.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[0].LineNo)
	assert.True(t, decimal.NewFromInt(5000).Equal(got.Total))
	assert.Equal(t, "primera compra", got.Notes)
	assert.Equal(t, 5, env.stock(t, "38", "negro"))

	missing, err := env.movements.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgres_DecrementGuard(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	v, err := env.variants.Increment(ctx, entity.VariantKey{ProductID: env.productID, Size: "37", Color: "blanco"}, 2)
	require.NoError(t, err)

	_, err = env.variants.Decrement(ctx, v.ID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El CHECK de la tabla rechaza stock negativo aunque se salte el repositorio.
	_, err = env.pool.Exec(ctx, `UPDATE stock_variants SET stock = -1 WHERE id = $1`, v.ID)
	assert.Error(t, err)
	assert.Equal(t, 2, env.stock(t, "37", "blanco"))
}

func TestPostgres_OppositeOrderMovementsDoNotDeadlock(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()

	_, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-0", DocumentType: "factura", UserID: env.userID,
		Lines: []dto.MovementLineRequest{env.line("38", "negro", 100), env.line("39", "negro", 100)},
	})
	require.NoError(t, err)

	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, rounds*3)
	for i := 0; i < rounds; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
				DocumentNumber: "E-" + uuid.NewString()[:8], DocumentType: "factura", UserID: env.userID,
				Lines: []dto.MovementLineRequest{env.line("38", "negro", 1), env.line("39", "negro", 1)},
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
				DocumentNumber: "E-" + uuid.NewString()[:8], DocumentType: "factura", UserID: env.userID,
				Lines: []dto.MovementLineRequest{env.line("39", "negro", 1), env.line("38", "negro", 1)},
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := env.engine.RecordExit(ctx, inventory.ExitInput{
				DocumentNumber: "S-" + uuid.NewString()[:8], ExitType: "venta", UserID: env.userID,
				Lines: []dto.MovementLineRequest{env.line("39", "negro", 1), env.line("38", "negro", 1)},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 100+rounds*2-rounds, env.stock(t, "38", "negro"))
	assert.Equal(t, 100+rounds*2-rounds, env.stock(t, "39", "negro"))
}

func TestPostgres_StockOverflow(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	key := entity.VariantKey{ProductID: env.productID, Size: "41", Color: "gris"}

	_, err := env.variants.Increment(ctx, key, math.MaxInt32)
	require.NoError(t, err)
	_, err = env.variants.Increment(ctx, key, 1)
	assert.ErrorIs(t, err, domain.ErrStockOverflow)

	_, err = env.engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-2", DocumentType: "factura", UserID: env.userID,
		Lines: []dto.MovementLineRequest{env.line("41", "gris", 1)},
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, math.MaxInt32, env.stock(t, "41", "gris"))
	entries, err := env.movements.List(ctx, repositoryFilter(entity.MovementKindEntry))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPostgres_LargestAcceptedAmountsFitColumns(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	price := decimal.RequireFromString("9999999999.99")

	mov, err := env.engine.RecordEntry(ctx, inventory.EntryInput{
		DocumentNumber: "E-3", DocumentType: "factura", UserID: env.userID,
		Lines: []dto.MovementLineRequest{{ProductID: env.productID, Size: "42", Color: "azul", Quantity: qty(99), UnitPrice: &price}},
	})
	require.NoError(t, err)

	got, err := env.movements.GetByID(ctx, mov.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString("989999999999.01").Equal(got.Total))
}
