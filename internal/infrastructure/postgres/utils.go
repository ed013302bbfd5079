package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/retail-ledger/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isInvalidText detecta 22P02 (ej. un id que no es UUID).
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// wrapErr traduce errores del driver: únicos y llaves foráneas ⇒ ErrConflict, texto inválido ⇒
// ErrInvalidInput, el resto ⇒ StorageError.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.Conflict("%s: registro duplicado", op)
	case isForeignKeyViolation(err):
		return domain.Conflict("%s: registro referenciado por otros datos", op)
	case isInvalidText(err):
		return domain.Invalid("%s: identificador con formato inválido", op)
	default:
		return domain.NewStorageError(op, err)
	}
}

// nullable convierte "" en NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
