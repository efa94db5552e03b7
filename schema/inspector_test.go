package schema_test

import (
	"context"
	stdsql "database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/dialect"
	"github.com/syssam/modelkit/dialect/sql"
	"github.com/syssam/modelkit/schema"
)

func openSQLite(t *testing.T, stmts ...string) *sql.Driver {
	t.Helper()
	db, err := stdsql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return sql.OpenDB(dialect.SQLite, db)
}

func TestInspectorSQLite(t *testing.T) {
	drv := openSQLite(t,
		`CREATE TABLE posts (id INTEGER PRIMARY KEY AUTOINCREMENT, author_id INTEGER, title TEXT)`,
		`CREATE TABLE tags (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`,
		`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT)`,
		`INSERT INTO posts (id, author_id, title) VALUES (42, 1, 'hello')`,
	)
	insp := schema.NewInspector(drv)
	ctx := context.Background()

	t.Run("Columns", func(t *testing.T) {
		columns, err := insp.Columns(ctx, "posts")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "author_id", "title"}, columns)

		_, err = insp.Columns(ctx, "comments")
		assert.True(t, modelkit.IsNotFound(err), "%v", err)

		_, err = insp.Columns(ctx, "posts; DROP TABLE posts")
		assert.Error(t, err)
	})

	t.Run("NextID", func(t *testing.T) {
		next, err := insp.NextID(ctx, "posts")
		require.NoError(t, err)
		assert.Equal(t, int64(43), next)

		next, err = insp.NextID(ctx, "tags")
		require.NoError(t, err)
		assert.Equal(t, int64(1), next)

		_, err = insp.NextID(ctx, "settings")
		assert.True(t, modelkit.IsNoAutoIncrement(err), "%v", err)

		_, err = insp.NextID(ctx, "comments")
		assert.True(t, modelkit.IsNotFound(err), "%v", err)
	})

	t.Run("Schema", func(t *testing.T) {
		next, err := insp.NextID(ctx, "main.posts")
		require.NoError(t, err)
		assert.Equal(t, int64(43), next)

		scoped := schema.NewInspector(drv, schema.WithSchema("main"))
		columns, err := scoped.Columns(ctx, "posts")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "author_id", "title"}, columns)
		next, err = scoped.NextID(ctx, "posts")
		require.NoError(t, err)
		assert.Equal(t, int64(43), next)
	})
}

func TestNextIDMySQL(t *testing.T) {
	query := regexp.QuoteMeta("SHOW TABLE STATUS LIKE 'posts'")
	columns := []string{"Name", "Engine", "Auto_increment"}
	tests := []struct {
		name  string
		mock  func(sqlmock.Sqlmock)
		want  int64
		check func(*testing.T, error)
	}{
		{
			name: "Ok",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(columns).
					AddRow("posts", "InnoDB", "43"))
			},
			want: 43,
		},
		{
			name: "LikeMatchesOthers",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(columns).
					AddRow("posts_archive", "InnoDB", "7").
					AddRow("posts", "InnoDB", "43"))
			},
			want: 43,
		},
		{
			name: "NoAutoIncrement",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(columns).
					AddRow("posts", "InnoDB", nil))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, modelkit.IsNoAutoIncrement(err))
				assert.Contains(t, err.Error(), `table "posts"`)
			},
		},
		{
			name: "Missing",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(columns))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, modelkit.IsNotFound(err))
			},
		},
		{
			name: "UndefinedTable",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(query).WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'blog.posts' doesn't exist"})
			},
			check: func(t *testing.T, err error) {
				assert.True(t, modelkit.IsNotFound(err))
			},
		},
		{
			name: "QueryError",
			mock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(query).WillReturnError(errors.New("connection reset"))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, modelkit.IsQueryError(err))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			next, err := schema.NewInspector(sql.OpenDB(dialect.MySQL, db)).NextID(context.Background(), "posts")
			if tt.check != nil {
				require.Error(t, err)
				tt.check(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, next)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNextIDMySQLSchema(t *testing.T) {
	query := regexp.QuoteMeta("SHOW TABLE STATUS FROM `blog` LIKE 'posts'")
	columns := []string{"Name", "Engine", "Auto_increment"}
	tests := []struct {
		name  string
		table string
		opts  []schema.InspectorOption
	}{
		{name: "Qualified", table: "blog.posts"},
		{name: "Option", table: "posts", opts: []schema.InspectorOption{schema.WithSchema("blog")}},
		{name: "QualifiedOverridesOption", table: "blog.posts", opts: []schema.InspectorOption{schema.WithSchema("shop")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(columns).
				AddRow("posts", "InnoDB", "43"))
			next, err := schema.NewInspector(sql.OpenDB(dialect.MySQL, db), tt.opts...).NextID(context.Background(), tt.table)
			require.NoError(t, err)
			assert.Equal(t, int64(43), next)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNextIDPostgres(t *testing.T) {
	serial := regexp.QuoteMeta("SELECT pg_get_serial_sequence($1, $2)")
	ctx := context.Background()

	t.Run("Called", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(serial).WithArgs("posts", "id").
			WillReturnRows(sqlmock.NewRows([]string{"pg_get_serial_sequence"}).AddRow("public.posts_id_seq"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT last_value, is_called FROM public.posts_id_seq")).
			WillReturnRows(sqlmock.NewRows([]string{"last_value", "is_called"}).AddRow(int64(42), true))
		next, err := schema.NewInspector(sql.OpenDB(dialect.Postgres, db)).NextID(ctx, "posts")
		require.NoError(t, err)
		assert.Equal(t, int64(43), next)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Fresh", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(serial).WithArgs("users", "user_id").
			WillReturnRows(sqlmock.NewRows([]string{"pg_get_serial_sequence"}).AddRow("public.users_user_id_seq"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM public.users_user_id_seq")).
			WillReturnRows(sqlmock.NewRows([]string{"last_value", "is_called"}).AddRow(int64(1), false))
		insp := schema.NewInspector(sql.OpenDB(dialect.Postgres, db), schema.WithSerialColumn("user_id"))
		next, err := insp.NextID(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, int64(1), next)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoSequence", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(serial).
			WillReturnRows(sqlmock.NewRows([]string{"pg_get_serial_sequence"}).AddRow(nil))
		_, err = schema.NewInspector(sql.OpenDB(dialect.Postgres, db)).NextID(ctx, "posts")
		assert.True(t, modelkit.IsNoAutoIncrement(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UndefinedTable", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(serial).WillReturnError(&pq.Error{Code: "42P01", Message: `relation "posts" does not exist`})
		_, err = schema.NewInspector(sql.OpenDB(dialect.Postgres, db)).NextID(ctx, "posts")
		assert.True(t, modelkit.IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNextIDInvalidTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	_, err = schema.NewInspector(sql.OpenDB(dialect.MySQL, db)).NextID(context.Background(), "posts' OR '1")
	assert.ErrorContains(t, err, "invalid table name")
	require.NoError(t, mock.ExpectationsWereMet())
}
