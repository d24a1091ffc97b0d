package postgres

import (
	"context"
	"database/sql"
)

// Querier is the common interface between *sql.DB and *sql.Tx.
// It allows repositories to work both standalone and within transactions.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ensure both *sql.DB and *sql.Tx satisfy Querier.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
