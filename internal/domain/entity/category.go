package entity

import "time"

// Category agrupa productos (p. ej. "Botines", "Sandalias").
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
