package repository

import (
	"context"
	"database/sql"
)

// DB is the subset of database/sql shared by *sql.DB and *sql.Tx. Repository
// constructors accept it so services can bind repositories to a transaction
// when an invariant spans multiple statements.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
