package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Failure kinds decided at the storage boundary so callers branch on
// errors.Is instead of inspecting driver message text.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrPermissionDenied = errors.New("permission denied by row-level policy")
)

const (
	pgCodeUniqueViolation   = "23505"
	pgCodeInsufficientPriv  = "42501"
	pgCodeRLSViolation      = "42P17"
	pgCodeCheckViolation    = "23514"
	pgCodeForeignKeyMissing = "23503"
)

// classify maps a driver error onto the repository failure taxonomy.
// Unrecognized errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgCodeInsufficientPriv, pgCodeRLSViolation:
			return errors.Join(ErrPermissionDenied, err)
		}
	}
	return err
}
