package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/station-vendor-service/internal/repository"
)

func TestMapPgError(t *testing.T) {
	other := errors.New("connection reset")
	deadlock := &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan station: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{"duplicate code", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "stations_code_key"}, repository.ErrAlreadyExists},
		{"unknown station", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrConflict},
		{"restrict", &pgconn.PgError{Code: pgerrcode.RestrictViolation}, repository.ErrConflict},
		{"bad status", &pgconn.PgError{Code: pgerrcode.CheckViolation}, repository.ErrConflict},
		{"other pg error passes through", deadlock, deadlock},
		{"non pg error passes through", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, repository.MapPgError(tc.in))
		})
	}
}
