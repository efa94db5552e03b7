package sql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelkit/dialect"
)

// TestOpenDB tests the OpenDB function with different dialects.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dialect string
	}{
		{"Postgres", dialect.Postgres, dialect.Postgres},
		{"MySQL", dialect.MySQL, dialect.MySQL},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		{"SQLite3", "sqlite3", dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.driver, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestQueryRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)
	ctx := context.Background()

	t.Run("row", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM users WHERE id = \\$1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))
		var name string
		require.NoError(t, QueryRow(ctx, drv, "SELECT name FROM users WHERE id = $1", []any{1}, &name))
		assert.Equal(t, "Alice", name)
	})

	t.Run("no_rows", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"name"}))
		var name string
		err := QueryRow(ctx, drv, "SELECT name FROM users", nil, &name)
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("query_error", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mock.ExpectQuery("SELECT").WillReturnError(expectedErr)
		var name string
		err := QueryRow(ctx, drv, "SELECT", nil, &name)
		assert.ErrorIs(t, err, expectedErr)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var logged []string
	drv := NewDebugDriver(OpenDB(dialect.MySQL, db), DebugWithLog(func(_ context.Context, v ...any) {
		logged = append(logged, fmt.Sprint(v...))
	}))
	assert.Equal(t, dialect.MySQL, drv.Dialect())

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows, err := drv.QueryContext(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	mock.ExpectExec("SET foo = 1").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = drv.ExecContext(context.Background(), "SET foo = 1")
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"query: SELECT 1 args: []", "exec: SET foo = 1 args: []"}, logged)
}

func TestIsUndefinedTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql", &mysql.MySQLError{Number: 1146, Message: "Table 'app.nope' doesn't exist"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1062}, false},
		{"postgres", &pq.Error{Code: "42P01"}, true},
		{"postgres other", &pq.Error{Code: "23505"}, false},
		{"sqlite", errors.New("SQL logic error: no such table: nope (1)"), true},
		{"wrapped", fmt.Errorf("next id: %w", &mysql.MySQLError{Number: 1146}), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUndefinedTable(tt.err))
		})
	}
}
