package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	mysqlNoSuchTable = 1146    // ER_NO_SUCH_TABLE
	pgUndefinedTable = "42P01" // undefined_table
)

// IsUndefinedTable reports whether err was caused by querying a table
// that does not exist.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlNoSuchTable
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == pgUndefinedTable
	}
	// modernc.org/sqlite exposes no table error code.
	return strings.Contains(err.Error(), "no such table")
}
