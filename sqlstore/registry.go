package sqlstore

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"

	"github.com/syssam/modelkit/dialect/sql"
)

// Kind is the storage shape of an association.
type Kind string

// Association kinds.
const (
	// HasMany keeps the foreign key on the target table.
	HasMany Kind = "has_many"
	// HasOne is HasMany with at most one target.
	HasOne Kind = "has_one"
	// BelongsTo keeps the foreign key on the source table.
	BelongsTo Kind = "belongs_to"
	// ManyToMany links source and target through a join table.
	ManyToMany Kind = "many_to_many"
)

// IDType is the Go type entity identifiers are normalized to.
type IDType string

// Identifier types.
const (
	IDInt    IDType = "int"
	IDString IDType = "string"
	IDUUID   IDType = "uuid"
)

// Entity describes one entity type and the table it is stored in.
type Entity struct {
	Name         string         `yaml:"name"`
	Table        string         `yaml:"table"`
	IDColumn     string         `yaml:"id_column,omitempty"`
	IDType       IDType         `yaml:"id_type,omitempty"`
	Associations []*Association `yaml:"associations,omitempty"`
}

// Association describes a named association from an entity to a set of
// entities of type Type.
type Association struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Kind Kind   `yaml:"kind"`
	// Column is the foreign key column: on the target table for HasMany
	// and HasOne, on the source table for BelongsTo. Defaults to
	// "<source>_id" and "<name>_id" respectively, in snake case.
	Column  string   `yaml:"column,omitempty"`
	Through *Through `yaml:"through,omitempty"`
}

// Through is the join table of a ManyToMany association.
type Through struct {
	Table  string `yaml:"table"`
	Source string `yaml:"source"` // Column referencing the source entity.
	Target string `yaml:"target"` // Column referencing the target entity.
}

// ParseID converts the textual form of an identifier to the entity's
// identifier type.
func (e *Entity) ParseID(s string) (any, error) {
	switch e.IDType {
	case IDString:
		return s, nil
	case IDUUID:
		return uuid.Parse(s)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}

// normalizeID converts id to the entity's identifier type. It reports
// false when id cannot be an identifier of the entity.
func (e *Entity) normalizeID(id any) (any, bool) {
	switch e.IDType {
	case IDUUID:
		switch v := id.(type) {
		case uuid.UUID:
			return v, true
		case string:
			u, err := uuid.Parse(v)
			return u, err == nil
		case [16]byte:
			return uuid.UUID(v), true
		}
		return nil, false
	case IDString:
		s, ok := id.(string)
		return s, ok
	default:
		switch v := id.(type) {
		case int:
			return int64(v), true
		case int8:
			return int64(v), true
		case int16:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case uint:
			if uint64(v) > math.MaxInt64 {
				return nil, false
			}
			return int64(v), true
		case uint8:
			return int64(v), true
		case uint16:
			return int64(v), true
		case uint32:
			return int64(v), true
		case uint64:
			if v > math.MaxInt64 {
				return nil, false
			}
			return int64(v), true
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			return n, err == nil
		}
		return nil, false
	}
}

// Registry is a validated set of entity descriptions.
type Registry struct {
	entities []*Entity
	byName   map[string]*Entity
}

// NewRegistry validates the entities and fills in defaults. The registry
// holds copies; the caller's values are not modified.
func NewRegistry(entities ...*Entity) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if e == nil || e.Name == "" {
			return nil, fmt.Errorf("sqlstore: entity without a name")
		}
		e = e.clone()
		if _, ok := r.byName[e.Name]; ok {
			return nil, fmt.Errorf("sqlstore: duplicate entity %q", e.Name)
		}
		if e.IDColumn == "" {
			e.IDColumn = "id"
		}
		switch e.IDType {
		case "":
			e.IDType = IDInt
		case IDInt, IDString, IDUUID:
		default:
			return nil, fmt.Errorf("sqlstore: entity %q: unknown id type %q", e.Name, e.IDType)
		}
		if !sql.ValidIdentifier(e.Table) || !sql.ValidIdentifier(e.IDColumn) {
			return nil, fmt.Errorf("sqlstore: entity %q: invalid table or id column", e.Name)
		}
		r.byName[e.Name] = e
		r.entities = append(r.entities, e)
	}
	for _, e := range r.entities {
		seen := make(map[string]struct{}, len(e.Associations))
		for _, a := range e.Associations {
			if err := r.checkAssociation(e, a); err != nil {
				return nil, fmt.Errorf("sqlstore: entity %q: %w", e.Name, err)
			}
			if _, ok := seen[a.Name]; ok {
				return nil, fmt.Errorf("sqlstore: entity %q: duplicate association %q", e.Name, a.Name)
			}
			seen[a.Name] = struct{}{}
		}
	}
	return r, nil
}

// clone copies e and its associations.
func (e *Entity) clone() *Entity {
	c := *e
	c.Associations = make([]*Association, len(e.Associations))
	for i, a := range e.Associations {
		if a != nil {
			ac := *a
			a = &ac
		}
		c.Associations[i] = a
	}
	return &c
}

func (r *Registry) checkAssociation(e *Entity, a *Association) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("association without a name")
	}
	if _, ok := r.byName[a.Type]; !ok {
		return fmt.Errorf("association %q: unknown type %q", a.Name, a.Type)
	}
	switch a.Kind {
	case HasMany, HasOne:
		if a.Column == "" {
			a.Column = inflect.Underscore(e.Name) + "_id"
		}
	case BelongsTo:
		if a.Column == "" {
			a.Column = inflect.Underscore(a.Name) + "_id"
		}
	case ManyToMany:
		t := a.Through
		if t == nil {
			return fmt.Errorf("association %q: many_to_many requires a through table", a.Name)
		}
		if !sql.ValidIdentifier(t.Table) || !sql.ValidIdentifier(t.Source) || !sql.ValidIdentifier(t.Target) {
			return fmt.Errorf("association %q: invalid through table", a.Name)
		}
		return nil
	default:
		return fmt.Errorf("association %q: unknown kind %q", a.Name, a.Kind)
	}
	if !sql.ValidIdentifier(a.Column) {
		return fmt.Errorf("association %q: invalid column %q", a.Name, a.Column)
	}
	return nil
}

// Entity returns the entity with the given name.
func (r *Registry) Entity(name string) (*Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Entities returns the entities in declaration order.
func (r *Registry) Entities() []*Entity {
	return r.entities
}

// Association returns the named association of e.
func (e *Entity) Association(name string) (*Association, bool) {
	for _, a := range e.Associations {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}
