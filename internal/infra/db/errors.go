package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error) (string, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return strings.TrimSpace(pgErr.Code), pgErr.ConstraintName, true
}

// IsUniqueViolation: нарушение UNIQUE; если constraint задан — только для него.
func IsUniqueViolation(err error, constraint string) bool {
	return is(err, codeUniqueViolation, constraint)
}

func IsForeignKeyViolation(err error, constraint string) bool {
	return is(err, codeForeignKeyViolation, constraint)
}

func IsCheckViolation(err error, constraint string) bool {
	return is(err, codeCheckViolation, constraint)
}

func is(err error, code, constraint string) bool {
	c, name, ok := pgCode(err)
	if !ok || c != code {
		return false
	}
	return constraint == "" || name == constraint
}
