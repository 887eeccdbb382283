package sqlrevision

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	BeginTx(ctx context.Context, txOptions *sql.TxOptions) (*sql.Tx, error)
	Driver() driver.Driver
}

var _ DB = &sql.DB{}

// Execer is what statements are executed on; both *sql.DB and *sql.Tx
// satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Querier is the read side of *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var _ Execer = &sql.Tx{}
var _ Querier = &sql.Tx{}
