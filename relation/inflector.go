package relation

import (
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Inflector pluralizes a lowercase type name to guess the default
// association name.
type Inflector interface {
	Pluralize(string) string
}

// InflectorFunc adapts an ordinary function to the Inflector interface.
type InflectorFunc func(string) string

// Pluralize calls f(s).
func (f InflectorFunc) Pluralize(s string) string { return f(s) }

// DefaultInflector pluralizes with the English rules of go-openapi/inflect.
var DefaultInflector Inflector = InflectorFunc(inflect.Pluralize)

// DefaultAssociation returns the association name used for an entity of
// the given type when the caller did not name one.
func DefaultAssociation(inf Inflector, typ string) string {
	if inf == nil {
		inf = DefaultInflector
	}
	return inf.Pluralize(cases.Lower(language.Und).String(typ))
}
