package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinels shared by every store. Services compare with errors.Is and the HTTP layer
// turns them into 404 and 409 responses.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// MapPgError turns driver errors into the sentinels above:
//   - no rows: ErrNotFound
//   - unique violation (duplicate station code, platform number, email): ErrAlreadyExists
//   - FK, restrict and check violations (unknown station, bad status value): ErrConflict
//
// Anything else is returned unchanged and ends up as a 500.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrAlreadyExists
	case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation, pgerrcode.CheckViolation:
		return ErrConflict
	default:
		return err
	}
}
