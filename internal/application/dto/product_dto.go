package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code          string          `json:"code" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand" validate:"max=100"`
	CategoryID    string          `json:"category_id" validate:"required,uuid"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"dgte0,lt=10000000000"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"dgte0,lt=10000000000"`
	MinStock      int             `json:"min_stock" validate:"min=0,max=2147483647"`
}

// UpdateProductRequest actualización parcial (el stock no se edita: se maneja vía movimientos).
type UpdateProductRequest struct {
	Code          *string          `json:"code" validate:"omitempty,max=50"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string          `json:"description"`
	Brand         *string          `json:"brand" validate:"omitempty,max=100"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty,dgte0,lt=10000000000"`
	SalePrice     *decimal.Decimal `json:"sale_price" validate:"omitempty,dgte0,lt=10000000000"`
	MinStock      *int             `json:"min_stock" validate:"omitempty,min=0,max=2147483647"`
	Active        *bool            `json:"active"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	PageRequest
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      int             `json:"min_stock"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	// Solo en GET /api/products/:id.
	Variants   []VariantStockDTO `json:"variants,omitempty"`
	TotalStock *int              `json:"total_stock,omitempty"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// VariantStockDTO stock de una combinación talla/color.
type VariantStockDTO struct {
	ID    string `json:"id"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

// StockSummaryResponse variantes de un producto y su stock total.
type StockSummaryResponse struct {
	ProductID  string            `json:"product_id"`
	Variants   []VariantStockDTO `json:"variants"`
	TotalStock int               `json:"total_stock"`
}

// LowStockItemDTO producto cuyo stock total está por debajo del mínimo.
type LowStockItemDTO struct {
	ProductID  string `json:"product_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
	TotalStock int    `json:"total_stock"`
	MinStock   int    `json:"min_stock"`
	Shortfall  int    `json:"shortfall"` // MinStock - TotalStock
}
