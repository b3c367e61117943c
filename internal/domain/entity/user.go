package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, vendedor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el usuario puede operar.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return true
	}
	return false
}
