// Package discover finds the entity types declared in Go source.
//
// A type is an entity when its value or pointer method set has both
//
//	EntityType() string
//	EntityID() any
//
// which is the modelkit.Entity interface.
package discover

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedTypes

// Models loads the packages matched by patterns, relative to dir, and
// returns the qualified names ("pkgpath.Type") of their entity types in
// sorted order. With no patterns it loads "./...".
func Models(ctx context.Context, dir string, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("discover: load packages: %w", err)
	}
	var (
		names []string
		errs  []error
	)
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("discover: %w", errors.Join(errs...))
	}
	for _, p := range pkgs {
		if p.Types == nil {
			continue
		}
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() || !IsEntity(tn.Type()) {
				continue
			}
			names = append(names, p.PkgPath+"."+name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// IsEntity reports whether t is a concrete named type implementing the
// entity methods on its value or pointer receiver.
func IsEntity(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok || types.IsInterface(named) {
		return false
	}
	mset := types.NewMethodSet(types.NewPointer(named))
	return hasMethod(mset, "EntityType", isString) && hasMethod(mset, "EntityID", isAny)
}

func hasMethod(mset *types.MethodSet, name string, result func(types.Type) bool) bool {
	for i := range mset.Len() {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != name {
			continue
		}
		sig := fn.Type().(*types.Signature)
		return sig.Params().Len() == 0 && sig.Results().Len() == 1 && result(sig.Results().At(0).Type())
	}
	return false
}

func isString(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.String
}

func isAny(t types.Type) bool {
	i, ok := t.Underlying().(*types.Interface)
	return ok && i.Empty()
}
