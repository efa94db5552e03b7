package sql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/modelkit/dialect"
)

// validIdentifierRe validates a single SQL identifier part.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether s is a valid, optionally schema
// qualified, SQL identifier (e.g. "posts" or "public.posts").
func ValidIdentifier(s string) bool {
	if s == "" || len(s) > 128 {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !validIdentifierRe.MatchString(part) {
			return false
		}
	}
	return true
}

// Builder is a minimal statement builder. It quotes identifiers and
// numbers placeholders for its dialect. The first invalid identifier is
// recorded and returned by Query.
type Builder struct {
	dialect string
	sb      strings.Builder
	args    []any
	err     error
}

// Dialect returns a new Builder for the given dialect.
func Dialect(name string) *Builder {
	return &Builder{dialect: name}
}

// WriteString appends raw SQL.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Ident appends a quoted identifier. Qualified names ("t.id") are quoted
// part by part.
func (b *Builder) Ident(name string) *Builder {
	if !ValidIdentifier(name) {
		if b.err == nil {
			b.err = fmt.Errorf("dialect/sql: invalid identifier %q", name)
		}
		return b
	}
	for i, part := range strings.Split(name, ".") {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		b.sb.WriteString(b.quote(part))
	}
	return b
}

// Arg appends a placeholder bound to v.
func (b *Builder) Arg(v any) *Builder {
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
	} else {
		b.sb.WriteByte('?')
	}
	return b
}

// Query returns the statement, its arguments and the first recorded error.
func (b *Builder) Query() (string, []any, error) {
	return b.sb.String(), b.args, b.err
}

func (b *Builder) quote(ident string) string {
	if b.dialect == dialect.MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}
