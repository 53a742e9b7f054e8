package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned when a write points at a missing row.
var ErrInvalidReference = errors.New("invalid reference")

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// classify translates driver errors into store errors. Both lib/pq and
// pgx report SQLSTATE codes, so either driver can back the store.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var code, constraint string
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		code, constraint = string(pqErr.Code), pqErr.Constraint
	case errors.As(err, &pgErr):
		code, constraint = pgErr.Code, pgErr.ConstraintName
	default:
		return err
	}

	switch code {
	case sqlStateUniqueViolation:
		return fmt.Errorf("%w: %s", ErrConflict, constraint)
	case sqlStateForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, constraint)
	default:
		return err
	}
}
