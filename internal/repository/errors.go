package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Typed store errors. Services branch on these instead of inspecting
// driver errors or matching message substrings.
var (
	// ErrNotFound maps pgx.ErrNoRows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate maps unique constraint violations (23505).
	ErrDuplicate = errors.New("record already exists")
	// ErrTableNotProvisioned maps undefined-table errors (42P01). Optional
	// features downgrade to a soft "not available" status on this instead
	// of failing hard.
	ErrTableNotProvisioned = errors.New("backing table not provisioned")
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeUndefinedTable  = "42P01"
)

// wrapErr converts driver-level errors into the typed sentinels above.
// Unrecognized errors pass through untouched.
func wrapErr(err error) error {
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
			return ErrDuplicate
		case pgCodeUndefinedTable:
			return ErrTableNotProvisioned
		}
	}
	return err
}
