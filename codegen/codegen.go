// Package codegen generates typed helpers for the entities of a registry:
// type name and association constants and reference constructors, so
// relation chains can be written without string literals.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/modelkit/sqlstore"
)

const (
	modelkitPkg = "github.com/syssam/modelkit"
	uuidPkg     = "github.com/google/uuid"
)

// Generate renders the helpers of r as the source of package pkg.
func Generate(r *sqlstore.Registry, pkg string) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("codegen: invalid package name %q", pkg)
	}
	var buf bytes.Buffer
	if err := File(r, pkg).Render(&buf); err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	return buf.Bytes(), nil
}

// File builds the jennifer file Generate renders.
func File(r *sqlstore.Registry, pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by modelkit, DO NOT EDIT.")
	f.ImportName(modelkitPkg, "modelkit")
	f.ImportName(uuidPkg, "uuid")

	entities := r.Entities()
	f.Comment("Entity type names.")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, e := range entities {
			g.Id(typeConst(e)).Op("=").Lit(e.Name)
		}
	})
	for _, e := range entities {
		genEntity(f, e)
	}

	f.Comment("Types returns the names of all entity types.")
	f.Func().Id("Types").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(g *jen.Group) {
			for _, e := range entities {
				g.Id(typeConst(e))
			}
		})),
	)
	return f
}

func genEntity(f *jen.File, e *sqlstore.Entity) {
	name := pascal(e.Name)
	if len(e.Associations) > 0 {
		f.Commentf("Associations of %s.", e.Name)
		f.Const().DefsFunc(func(g *jen.Group) {
			for _, a := range e.Associations {
				g.Id(name + pascal(a.Name)).Op("=").Lit(a.Name)
			}
		})
	}
	ctor := "New" + name + "Ref"
	f.Commentf("%s returns a reference to the %s with the given id.", ctor, e.Name)
	f.Func().Id(ctor).Params(jen.Id("id").Add(idType(e.IDType))).Qual(modelkitPkg, "Ref").Block(
		jen.Return(jen.Qual(modelkitPkg, "NewRef").Call(jen.Id(typeConst(e)), jen.Id("id"))),
	)
}

func typeConst(e *sqlstore.Entity) string {
	return pascal(e.Name) + "Type"
}

func idType(t sqlstore.IDType) jen.Code {
	switch t {
	case sqlstore.IDString:
		return jen.String()
	case sqlstore.IDUUID:
		return jen.Qual(uuidPkg, "UUID")
	default:
		return jen.Int64()
	}
}

var acronyms = map[string]bool{
	"api": true, "html": true, "http": true, "id": true, "ip": true,
	"json": true, "sql": true, "url": true, "uuid": true, "xml": true,
}

// pascal converts snake_case and kebab-case names to PascalCase, keeping
// well-known acronyms upper case.
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, w := range words {
		if acronyms[strings.ToLower(w)] {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}
