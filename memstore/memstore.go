// Package memstore provides an in-memory relation.Store. It is meant for
// tests and for callers that already hold their object graph in memory.
package memstore

import (
	"context"
	"sync"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/relation"
)

// Store is a map-backed relation.Store. Entities are keyed by type and
// id; associations by source entity and name. It is safe for concurrent
// use.
type Store struct {
	mu       sync.RWMutex
	entities map[modelkit.Ref]modelkit.Entity
	// assocs[source][name] is the set of related refs. A present but empty
	// set means the association exists and has no members.
	assocs map[modelkit.Ref]map[string]map[modelkit.Ref]struct{}
	// schema[type] holds association names declared for every entity of
	// that type, so that empty associations still resolve.
	schema map[string]map[string]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		entities: make(map[modelkit.Ref]modelkit.Entity),
		assocs:   make(map[modelkit.Ref]map[string]map[modelkit.Ref]struct{}),
		schema:   make(map[string]map[string]struct{}),
	}
}

// Put stores entities, replacing earlier entities with the same type and id.
func (s *Store) Put(entities ...modelkit.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		s.entities[modelkit.RefOf(e)] = e
	}
}

// Get returns the entity with the given type and id.
func (s *Store) Get(_ context.Context, typ string, id any) (modelkit.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[modelkit.NewRef(typ, id)]
	if !ok {
		return nil, modelkit.NewNotFoundErrorWithID(typ, id)
	}
	return e, nil
}

// Declare registers association names on an entity type. Every entity of
// that type resolves them, even without related entities.
func (s *Store) Declare(typ string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.schema[typ]
	if !ok {
		set = make(map[string]struct{})
		s.schema[typ] = set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
}

// Relate adds targets to the association name of src, declaring the
// association if needed. Targets are stored too.
func (s *Store) Relate(src modelkit.Entity, name string, targets ...modelkit.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := modelkit.RefOf(src)
	s.entities[key] = src
	byName, ok := s.assocs[key]
	if !ok {
		byName = make(map[string]map[modelkit.Ref]struct{})
		s.assocs[key] = byName
	}
	set, ok := byName[name]
	if !ok {
		set = make(map[modelkit.Ref]struct{})
		byName[name] = set
	}
	for _, t := range targets {
		ref := modelkit.RefOf(t)
		s.entities[ref] = t
		set[ref] = struct{}{}
	}
}

// Unrelate removes targets from the association name of src. The
// association itself stays resolvable.
func (s *Store) Unrelate(src modelkit.Entity, name string, targets ...modelkit.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.assocs[modelkit.RefOf(src)][name]
	for _, t := range targets {
		delete(set, modelkit.RefOf(t))
	}
}

// accessor is the resolved association of one source entity.
type accessor struct {
	source modelkit.Ref
	name   string
}

func (a accessor) Source() modelkit.Entity { return a.source }
func (a accessor) Association() string     { return a.name }

// ResolveAssociation implements relation.Store.
func (s *Store) ResolveAssociation(ctx context.Context, e modelkit.Entity, name string) (relation.Accessor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := modelkit.RefOf(e)
	if _, ok := s.assocs[src][name]; ok {
		return accessor{source: src, name: name}, nil
	}
	if _, ok := s.schema[src.Type][name]; ok {
		return accessor{source: src, name: name}, nil
	}
	return nil, modelkit.NewUnknownAssociationError(src.Type, name)
}

// FindInAccessor implements relation.Store. Accessors from other stores
// are rejected as unknown associations.
func (s *Store) FindInAccessor(ctx context.Context, acc relation.Accessor, id any) (modelkit.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, ok := acc.(accessor)
	if !ok {
		return nil, modelkit.NewUnknownAssociationError(acc.Source().EntityType(), acc.Association())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ref := range s.assocs[a.source][a.name] {
		if ref.ID == id {
			return s.entities[ref], nil
		}
	}
	return nil, modelkit.NewNotFoundErrorWithID(a.name, id)
}

var _ relation.Store = (*Store)(nil)
