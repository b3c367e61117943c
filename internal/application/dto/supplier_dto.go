package dto

import "time"

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	TaxID   string `json:"tax_id" validate:"required,max=50"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=500"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
