// Package sqlstore implements relation.Store over a SQL database. Entity
// types and their associations are described by a Registry; every
// membership lookup is a single SELECT with bound arguments.
package sqlstore

import (
	"context"
	"errors"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/dialect"
	"github.com/syssam/modelkit/dialect/sql"
	"github.com/syssam/modelkit/relation"
)

// Store is a read-only relation.Store backed by a dialect.Driver.
type Store struct {
	drv      dialect.Driver
	registry *Registry
}

// New returns a Store reading through drv.
func New(drv dialect.Driver, registry *Registry) *Store {
	return &Store{drv: drv, registry: registry}
}

// Registry returns the registry of the store.
func (s *Store) Registry() *Registry {
	return s.registry
}

// accessor is the resolved association of one source row.
type accessor struct {
	source   modelkit.Ref
	entity   *Entity
	assoc    *Association
	sourceID any
}

func (a *accessor) Source() modelkit.Entity { return a.source }
func (a *accessor) Association() string     { return a.assoc.Name }

// ResolveAssociation implements relation.Store. It issues no query.
func (s *Store) ResolveAssociation(ctx context.Context, e modelkit.Entity, name string) (relation.Accessor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := modelkit.RefOf(e)
	ent, ok := s.registry.Entity(src.Type)
	if !ok {
		return nil, modelkit.NewUnknownAssociationError(src.Type, name)
	}
	assoc, ok := ent.Association(name)
	if !ok {
		return nil, modelkit.NewUnknownAssociationError(src.Type, name)
	}
	id, ok := ent.normalizeID(src.ID)
	if !ok {
		return nil, modelkit.NewQueryError(ent.Table, "resolve", errors.New("invalid id for "+src.String()))
	}
	return &accessor{source: src, entity: ent, assoc: assoc, sourceID: id}, nil
}

// FindInAccessor implements relation.Store. It returns a reference to the
// target entity when a row with the id is in the association.
func (s *Store) FindInAccessor(ctx context.Context, acc relation.Accessor, id any) (modelkit.Entity, error) {
	a, ok := acc.(*accessor)
	if !ok {
		return nil, modelkit.NewUnknownAssociationError(acc.Source().EntityType(), acc.Association())
	}
	target, _ := s.registry.Entity(a.assoc.Type)
	tid, ok := target.normalizeID(id)
	if !ok {
		// An id of the wrong shape cannot be a member.
		return nil, modelkit.NewNotFoundErrorWithID(target.Name, id)
	}
	query, args, err := s.membership(a, target, tid)
	if err != nil {
		return nil, modelkit.NewQueryError(target.Table, "find", err)
	}
	var found any
	switch err := sql.QueryRow(ctx, s.drv, query, args, &found); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, modelkit.NewNotFoundErrorWithID(target.Name, id)
	case err != nil:
		return nil, modelkit.NewQueryError(target.Table, "find", err)
	}
	return modelkit.NewRef(target.Name, tid), nil
}

// membership builds the query selecting the target id when tid is in
// the association of the accessor's source row.
func (s *Store) membership(a *accessor, target *Entity, tid any) (string, []any, error) {
	b := sql.Dialect(s.drv.Dialect())
	b.WriteString("SELECT ").Ident("t." + target.IDColumn).
		WriteString(" FROM ").Ident(target.Table).WriteString(" AS ").Ident("t")
	switch a.assoc.Kind {
	case HasMany, HasOne:
		b.WriteString(" WHERE ").Ident("t." + a.assoc.Column).WriteString(" = ").Arg(a.sourceID)
	case BelongsTo:
		b.WriteString(" JOIN ").Ident(a.entity.Table).WriteString(" AS ").Ident("s").
			WriteString(" ON ").Ident("s." + a.assoc.Column).WriteString(" = ").Ident("t." + target.IDColumn).
			WriteString(" WHERE ").Ident("s." + a.entity.IDColumn).WriteString(" = ").Arg(a.sourceID)
	case ManyToMany:
		j := a.assoc.Through
		b.WriteString(" JOIN ").Ident(j.Table).WriteString(" AS ").Ident("j").
			WriteString(" ON ").Ident("j." + j.Target).WriteString(" = ").Ident("t." + target.IDColumn).
			WriteString(" WHERE ").Ident("j." + j.Source).WriteString(" = ").Arg(a.sourceID)
	}
	b.WriteString(" AND ").Ident("t." + target.IDColumn).WriteString(" = ").Arg(tid).
		WriteString(" LIMIT 1")
	return b.Query()
}

var _ relation.Store = (*Store)(nil)
