package schema

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/dialect"
	"github.com/syssam/modelkit/dialect/sql"
)

// NextID returns the id the next row inserted into table will receive.
// It reads the auto-increment metadata of the table without touching
// the counter. A *modelkit.NoAutoIncrementError is returned when the
// table has none, a *modelkit.NotFoundError when the table is missing.
func (i *Inspector) NextID(ctx context.Context, table string) (int64, error) {
	if !sql.ValidIdentifier(table) {
		return 0, fmt.Errorf("schema: invalid table name %q", table)
	}
	var (
		id  int64
		err error
	)
	switch d := i.drv.Dialect(); d {
	case dialect.MySQL:
		id, err = i.nextMySQL(ctx, table)
	case dialect.SQLite:
		id, err = i.nextSQLite(ctx, table)
	case dialect.Postgres:
		id, err = i.nextPostgres(ctx, table)
	default:
		err = fmt.Errorf("schema: unsupported dialect %q", d)
	}
	switch {
	case err == nil:
		return id, nil
	case modelkit.IsNotFound(err), modelkit.IsNoAutoIncrement(err):
		return 0, err
	case sql.IsUndefinedTable(err):
		return 0, modelkit.NewNotFoundErrorWithID("table", table)
	default:
		return 0, modelkit.NewQueryError(table, "next-id", err)
	}
}

// nextMySQL reads the Auto_increment column of SHOW TABLE STATUS. A
// schema qualifier becomes the FROM clause. The table name is a validated
// identifier and LIKE may match more than one table, so the row is picked
// by exact name.
func (i *Inspector) nextMySQL(ctx context.Context, table string) (int64, error) {
	ns, table := i.split(table)
	b := sql.Dialect(dialect.MySQL).WriteString("SHOW TABLE STATUS")
	if ns != "" {
		b.WriteString(" FROM ").Ident(ns)
	}
	query, _, err := b.WriteString(fmt.Sprintf(" LIKE '%s'", table)).Query()
	if err != nil {
		return 0, err
	}
	rows, err := i.drv.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	nameIdx, autoIdx := -1, -1
	for j, c := range columns {
		switch c {
		case "Name":
			nameIdx = j
		case "Auto_increment":
			autoIdx = j
		}
	}
	if nameIdx < 0 || autoIdx < 0 {
		return 0, &modelkit.NoAutoIncrementError{Table: table}
	}
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for j := range values {
		dest[j] = &values[j]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return 0, err
		}
		if values[nameIdx].String != table {
			continue
		}
		if !values[autoIdx].Valid {
			return 0, &modelkit.NoAutoIncrementError{Table: table}
		}
		return strconv.ParseInt(values[autoIdx].String, 10, 64)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return 0, modelkit.NewNotFoundErrorWithID("table", table)
}

// nextSQLite reads sqlite_sequence of the table's database. A table
// declared AUTOINCREMENT that never had a row inserted has no sequence
// entry yet and starts at 1.
func (i *Inspector) nextSQLite(ctx context.Context, table string) (int64, error) {
	ns, table := i.split(table)
	if !sql.ValidIdentifier(ns) {
		return 0, fmt.Errorf("schema: invalid schema name %q", ns)
	}
	var seq int64
	err := sql.QueryRow(ctx, i.drv, "SELECT seq FROM "+ns+".sqlite_sequence WHERE name = ?", []any{table}, &seq)
	switch {
	case err == nil:
		return seq + 1, nil
	case !errors.Is(err, sql.ErrNoRows) && !sql.IsUndefinedTable(err):
		return 0, err
	}
	var ddl string
	err = sql.QueryRow(ctx, i.drv, "SELECT sql FROM "+ns+".sqlite_master WHERE type = 'table' AND name = ?", []any{table}, &ddl)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, modelkit.NewNotFoundErrorWithID("table", table)
	case err != nil:
		return 0, err
	case !containsFold(ddl, "AUTOINCREMENT"):
		return 0, &modelkit.NoAutoIncrementError{Table: table}
	}
	return 1, nil
}

// nextPostgres reads the sequence owned by the serial column.
func (i *Inspector) nextPostgres(ctx context.Context, table string) (int64, error) {
	if ns, name := i.split(table); ns != "" {
		table = ns + "." + name
	}
	var seq sql.NullString
	err := sql.QueryRow(ctx, i.drv, "SELECT pg_get_serial_sequence($1, $2)", []any{table, i.serialColumn}, &seq)
	if err != nil {
		return 0, err
	}
	if !seq.Valid || !sql.ValidIdentifier(seq.String) {
		return 0, &modelkit.NoAutoIncrementError{Table: table}
	}
	var (
		last   int64
		called bool
	)
	if err := sql.QueryRow(ctx, i.drv, "SELECT last_value, is_called FROM "+seq.String, nil, &last, &called); err != nil {
		return 0, err
	}
	if called {
		return last + 1, nil
	}
	return last, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}
