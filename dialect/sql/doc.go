// Package sql implements dialect.Driver over database/sql and provides
// the small statement builder the stores and inspectors use to quote
// identifiers and number placeholders per dialect.
//
//	b := sql.Dialect(dialect.Postgres)
//	b.WriteString("SELECT 1 FROM ").Ident("posts").
//	    WriteString(" WHERE ").Ident("id").WriteString(" = ").Arg(42)
//	query, args, err := b.Query()
//	// SELECT 1 FROM "posts" WHERE "id" = $1   [42]
package sql
