package entity

import "time"

// Supplier proveedor de mercancía, referenciado opcionalmente por las entradas.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // RUC/NIT, único
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
