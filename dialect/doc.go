// Package dialect names the supported database dialects and defines the
// driver interface the stores and inspectors issue statements through.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The names double as database/sql driver names: lib/pq registers
// "postgres", go-sql-driver/mysql "mysql" and modernc.org/sqlite "sqlite".
//
// # Driver Interface
//
//	type Driver interface {
//	    ExecQuerier
//	    Dialect() string
//	    Close() error
//	}
//
// ExecQuerier matches *sql.DB, so a Driver can be handed to atlas
// inspectors unchanged.
//
// # Usage
//
//	import (
//	    "github.com/syssam/modelkit/dialect"
//	    "github.com/syssam/modelkit/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.MySQL, "user:pass@tcp(localhost:3306)/app")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
package dialect
