package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes for integrity violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var (
	ErrDuplicate      = errors.New("duplicate key")
	ErrForeignKey     = errors.New("foreign key violation")
	ErrCheckViolation = errors.New("check constraint violation")
)

// ConstraintError is an integrity violation reported by the store.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return e.Kind.Error() + " (" + e.Constraint + ")"
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// ClassifyError turns integrity violations into *ConstraintError and returns
// any other error unchanged.
func ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var kind error
	switch pgErr.Code {
	case codeUniqueViolation:
		kind = ErrDuplicate
	case codeForeignKeyViolation:
		kind = ErrForeignKey
	case codeCheckViolation:
		kind = ErrCheckViolation
	default:
		return err
	}

	return &ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
}

// ConstraintName returns the violated constraint, or "".
func ConstraintName(err error) string {
	var cErr *ConstraintError
	if errors.As(err, &cErr) {
		return cErr.Constraint
	}
	return ""
}
