package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

var _ repository.StockVariantRepository = (*StockVariantRepo)(nil)

const variantColumns = `id, product_id, size, color, stock, created_at, updated_at`

// StockVariantRepo contadores de stock por variante sobre PostgreSQL (usable con pool o tx).
type StockVariantRepo struct {
	q Querier
}

// NewStockVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockVariantRepository(q Querier) *StockVariantRepo {
	return &StockVariantRepo{q: q}
}

func scanVariant(row pgx.Row) (*entity.StockVariant, error) {
	var v entity.StockVariant
	if err := row.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.Stock, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Find busca la variante por coincidencia exacta de producto, talla y color.
func (r *StockVariantRepo) Find(ctx context.Context, key entity.VariantKey) (*entity.StockVariant, error) {
	return r.find(ctx, key, "")
}

// FindForUpdate bloquea la fila de la variante hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockVariantRepo) FindForUpdate(ctx context.Context, key entity.VariantKey) (*entity.StockVariant, error) {
	return r.find(ctx, key, " FOR UPDATE")
}

func (r *StockVariantRepo) find(ctx context.Context, key entity.VariantKey, lock string) (*entity.StockVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM stock_variants
		WHERE product_id = $1 AND size = $2 AND color = $3` + lock
	v, err := scanVariant(r.q.QueryRow(ctx, query, key.ProductID, key.Size, key.Color))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock variant: %w", err)
	}
	return v, nil
}

// Increment crea la variante o suma qty en una sola sentencia.
// El UNIQUE (product_id, size, color) garantiza que dos entradas concurrentes no dupliquen la fila.
// Si la suma no cabe en la columna devuelve domain.ErrStockOverflow.
func (r *StockVariantRepo) Increment(ctx context.Context, key entity.VariantKey, qty int) (*entity.StockVariant, error) {
	query := `
		INSERT INTO stock_variants (id, product_id, size, color, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (product_id, size, color)
		DO UPDATE SET stock = stock_variants.stock + EXCLUDED.stock, updated_at = now()
		RETURNING ` + variantColumns
	v, err := scanVariant(r.q.QueryRow(ctx, query, uuid.New().String(), key.ProductID, key.Size, key.Color, qty))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrProductNotFound
		}
		if isNumericOverflow(err) {
			return nil, domain.ErrStockOverflow
		}
		return nil, fmt.Errorf("increment stock variant: %w", err)
	}
	return v, nil
}

// Decrement resta qty solo si hay stock suficiente; sin filas afectadas devuelve ErrInsufficientStock.
func (r *StockVariantRepo) Decrement(ctx context.Context, variantID string, qty int) (*entity.StockVariant, error) {
	query := `
		UPDATE stock_variants SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING ` + variantColumns
	v, err := scanVariant(r.q.QueryRow(ctx, query, variantID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCheckViolation(err) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("decrement stock variant: %w", err)
	}
	return v, nil
}

// ListByProduct lista las variantes del producto ordenadas por talla y color.
func (r *StockVariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockVariant, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+variantColumns+` FROM stock_variants WHERE product_id = $1 ORDER BY size, color`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock variants: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockVariant, 0)
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
