package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
	pgNumericOverflow = "22003"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgErrorCode(err) == pgUniqueViolation }

// isCheckViolation detecta el CHECK (stock >= 0) de stock_variants.
func isCheckViolation(err error) bool { return pgErrorCode(err) == pgCheckViolation }

func isForeignKeyViolation(err error) bool { return pgErrorCode(err) == pgFKViolation }

// isNumericOverflow detecta valores fuera del rango de la columna (INTEGER, NUMERIC(p,s)).
func isNumericOverflow(err error) bool { return pgErrorCode(err) == pgNumericOverflow }

// normLimit aplica los límites de paginación por defecto.
func normLimit(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
