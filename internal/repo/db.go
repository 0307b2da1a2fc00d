// Package repo contains all database access logic for the metro router.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/metro-router/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres SQLSTATE codes the repos translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintMessages names the unique constraints from the migrations.
var constraintMessages = map[string]string{
	"lines_name_key":           "line name already exists",
	"stations_line_name_key":   "station name already exists on this line",
	"stations_line_number_key": "station number already taken on this line",
}

// pgCode returns the SQLSTATE and the Postgres error behind err, or "" and
// nil when err did not come from Postgres.
func pgCode(err error) (string, *pgconn.PgError) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr
	}
	return "", nil
}

// conflictError converts a unique violation into domain.ErrConflict with a
// readable message; any other error is returned unchanged.
func conflictError(err error) error {
	code, pgErr := pgCode(err)
	if code != codeUniqueViolation {
		return err
	}
	msg, ok := constraintMessages[pgErr.ConstraintName]
	if !ok {
		msg = pgErr.ConstraintName
	}
	return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
}
