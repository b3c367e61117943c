package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/calzado-fabianne/almacen-api/internal/domain"
	"github.com/calzado-fabianne/almacen-api/internal/domain/entity"
	"github.com/calzado-fabianne/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, brand, category_id, purchase_price, sale_price, min_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Brand, &p.CategoryID,
		&p.PurchasePrice, &p.SalePrice, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Brand, p.CategoryID,
		p.PurchasePrice, p.SalePrice, p.MinStock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por su código de catálogo.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// Update actualiza los datos de catálogo. El stock no se toca aquí (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, description = $4, brand = $5, category_id = $6,
			purchase_price = $7, sale_price = $8, min_stock = $9, active = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Brand, p.CategoryID,
		p.PurchasePrice, p.SalePrice, p.MinStock, p.Active, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List lista productos por nombre, opcionalmente filtrados por categoría.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	limit, offset := normLimit(f.Limit, f.Offset)
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR category_id::text = $1) AND (NOT $2 OR active)
		ORDER BY name, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.CategoryID, f.OnlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListBelowMinStock suma el stock de todas las variantes y lo compara con min_stock.
func (r *ProductRepo) ListBelowMinStock(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT p.id, p.code, p.name, p.category_id, COALESCE(SUM(v.stock), 0)::int AS total, p.min_stock
		FROM products p
		LEFT JOIN stock_variants v ON v.product_id = p.id
		WHERE p.active
		GROUP BY p.id
		HAVING COALESCE(SUM(v.stock), 0) < p.min_stock
		ORDER BY p.min_stock - COALESCE(SUM(v.stock), 0) DESC, p.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	list := make([]repository.LowStockItem, 0)
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.Code, &it.Name, &it.CategoryID, &it.TotalStock, &it.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
