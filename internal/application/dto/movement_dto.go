package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea de una entrada o salida. Cantidad y precio se aceptan como
// número JSON o como cadena numérica; la conversión a entero se valida en el caso de uso.
type MovementLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Size      string           `json:"size" validate:"required,max=20"`
	Color     string           `json:"color" validate:"required,max=50"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateEntryRequest body para POST /api/entries.
type CreateEntryRequest struct {
	DocumentNumber string                `json:"document_number" validate:"required,max=50"`
	DocumentType   string                `json:"document_type" validate:"required,max=50"`
	SupplierID     string                `json:"supplier_id" validate:"omitempty,uuid"`
	Notes          string                `json:"notes"`
	Lines          []MovementLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateExitRequest body para POST /api/exits.
type CreateExitRequest struct {
	DocumentNumber string                `json:"document_number" validate:"required,max=50"`
	ExitType       string                `json:"exit_type" validate:"required,max=50"`
	Recipient      string                `json:"recipient" validate:"max=255"`
	Notes          string                `json:"notes"`
	Lines          []MovementLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// MovementListQuery filtros de listado de entradas o salidas.
type MovementListQuery struct {
	PageRequest
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// MovementLineResponse línea persistida con su subtotal.
type MovementLineResponse struct {
	ID        string          `json:"id"`
	LineNo    int             `json:"line_no"`
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// MovementResponse entrada o salida persistida.
type MovementResponse struct {
	ID             string                 `json:"id"`
	Kind           string                 `json:"kind"`
	DocumentNumber string                 `json:"document_number"`
	DocumentType   string                 `json:"document_type"`
	SupplierID     string                 `json:"supplier_id,omitempty"`
	SupplierName   string                 `json:"supplier_name,omitempty"`
	Recipient      string                 `json:"recipient,omitempty"`
	UserID         string                 `json:"user_id"`
	UserName       string                 `json:"user_name,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Total          decimal.Decimal        `json:"total"`
	CreatedAt      time.Time              `json:"created_at"`
	Lines          []MovementLineResponse `json:"lines"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
