package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isUndefinedRelation tabla (42P01) o columna (42703) inexistente: la migración de esa fuente
// aún no se aplicó en este entorno.
func isUndefinedRelation(err error) bool {
	code := pgCode(err)
	return code == "42P01" || code == "42703"
}

// isRetryable deadlock (40P01), fallo de serialización (40001) o lock_timeout (55P03).
func isRetryable(err error) bool {
	switch pgCode(err) {
	case "40P01", "40001", "55P03":
		return true
	}
	return false
}

// sourceErr traduce una tabla inexistente a domain.ErrSourceUnavailable.
func sourceErr(op string, err error) error {
	if isUndefinedRelation(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
