package sql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/syssam/modelkit/dialect"
)

// Driver is a dialect.Driver implementation for SQL based databases.
type Driver struct {
	Conn
	dialect string
}

// NewDriver creates a new Driver with the given Conn and dialect.
func NewDriver(dialect string, c Conn) *Driver {
	return &Driver{dialect: dialect, Conn: c}
}

// Open wraps the database/sql.Open method and returns a Driver. The
// dialect name is used as the database/sql driver name.
func Open(dialect, source string) (*Driver, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	return NewDriver(dialect, Conn{db}), nil
}

// OpenDB wraps the given database/sql.DB method with a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return NewDriver(dialect, Conn{db})
}

// DB returns the underlying *sql.DB instance.
func (d Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Dialect implements the dialect.Driver method.
func (d Driver) Dialect() string {
	// The driver name may carry a suffix when wrapped, e.g. "sqlite3" or
	// "postgres-otel".
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.DB().Close() }

// Conn implements dialect.ExecQuerier given ExecQuerier.
type Conn struct {
	dialect.ExecQuerier
}

// QueryRow runs a query expected to return at most one row and scans it
// into dest. It returns sql.ErrNoRows when the query returns no rows.
func QueryRow(ctx context.Context, eq dialect.ExecQuerier, query string, args []any, dest ...any) error {
	rows, err := eq.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Close()
}

// ErrNoRows is an alias to sql.ErrNoRows.
var ErrNoRows = sql.ErrNoRows

// NullString is an alias to sql.NullString.
type NullString = sql.NullString

var _ dialect.Driver = (*Driver)(nil)
