package schema

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/dialect"
	"github.com/syssam/modelkit/dialect/sql"
)

// Inspector reads table metadata through a driver. It is safe for
// concurrent use.
type Inspector struct {
	drv          dialect.Driver
	schema       string
	serialColumn string

	mu    sync.Mutex
	atlas migrate.Driver
}

// InspectorOption configures the Inspector.
type InspectorOption func(*Inspector)

// WithSchema sets the database schema tables are looked up in. Default is
// the connection's current schema ("main" on SQLite).
func WithSchema(name string) InspectorOption {
	return func(i *Inspector) {
		i.schema = name
	}
}

// WithSerialColumn sets the column whose sequence NextID reads on
// Postgres. Default is "id".
func WithSerialColumn(name string) InspectorOption {
	return func(i *Inspector) {
		i.serialColumn = name
	}
}

// NewInspector returns an Inspector over drv.
func NewInspector(drv dialect.Driver, opts ...InspectorOption) *Inspector {
	i := &Inspector{drv: drv, serialColumn: "id"}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Dialect returns the dialect of the underlying driver.
func (i *Inspector) Dialect() string {
	return i.drv.Dialect()
}

// Columns returns the column names of table in table order.
func (i *Inspector) Columns(ctx context.Context, table string) ([]string, error) {
	if !sql.ValidIdentifier(table) {
		return nil, fmt.Errorf("schema: invalid table name %q", table)
	}
	drv, err := i.inspector()
	if err != nil {
		return nil, modelkit.NewQueryError(table, "columns", err)
	}
	ns, name := i.split(table)
	s, err := drv.InspectSchema(ctx, ns, &atlas.InspectOptions{Tables: []string{name}})
	if err != nil {
		if atlas.IsNotExistError(err) {
			return nil, modelkit.NewNotFoundErrorWithID("table", table)
		}
		return nil, modelkit.NewQueryError(table, "columns", err)
	}
	t, ok := s.Table(name)
	if !ok {
		return nil, modelkit.NewNotFoundErrorWithID("table", table)
	}
	columns := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		columns[j] = c.Name
	}
	return columns, nil
}

// inspector lazily opens the atlas driver for the dialect.
func (i *Inspector) inspector() (migrate.Driver, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.atlas != nil {
		return i.atlas, nil
	}
	var (
		drv migrate.Driver
		err error
	)
	switch d := i.drv.Dialect(); d {
	case dialect.MySQL:
		drv, err = mysql.Open(i.drv)
	case dialect.Postgres:
		drv, err = postgres.Open(i.drv)
	case dialect.SQLite:
		drv, err = sqlite.Open(i.drv)
	default:
		err = fmt.Errorf("schema: unsupported dialect %q", d)
	}
	if err != nil {
		return nil, err
	}
	i.atlas = drv
	return drv, nil
}

// split separates an optional schema qualifier from the table name.
func (i *Inspector) split(table string) (string, string) {
	if ns, name, ok := strings.Cut(table, "."); ok {
		return ns, name
	}
	if i.schema == "" && i.drv.Dialect() == dialect.SQLite {
		return "main", table
	}
	return i.schema, table
}
