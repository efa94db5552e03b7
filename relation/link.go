package relation

import (
	"github.com/syssam/modelkit"
)

// Input is one element of a relation chain as supplied by the caller:
// either a bare entity (see Of) or an entity paired with an explicit
// association name (see Via and Link).
type Input interface {
	// normalize turns the input into a Link, deriving the association
	// name with the inflector when none was given.
	normalize(Inflector) Link
}

// Link is an entity together with the association name under which it
// is looked up on its predecessor in the chain.
type Link struct {
	Entity      modelkit.Entity
	Association string
}

// Via returns an explicit Link. The association name overrides the
// default derived from the entity type.
func Via(e modelkit.Entity, association string) Link {
	return Link{Entity: e, Association: association}
}

func (l Link) normalize(Inflector) Link { return l }

// bare is an entity without an explicit association name.
type bare struct {
	entity modelkit.Entity
}

// Of returns an Input for e whose association name defaults to the
// pluralized, lowercased type tag of e ("Order" becomes "orders").
func Of(e modelkit.Entity) Input {
	return bare{entity: e}
}

func (b bare) normalize(inf Inflector) Link {
	l := Link{Entity: b.entity}
	if modelkit.Valid(b.entity) {
		l.Association = DefaultAssociation(inf, b.entity.EntityType())
	}
	return l
}

// Chain converts entities into bare inputs, for callers that hold a
// plain slice of entities.
func Chain(entities ...modelkit.Entity) []Input {
	in := make([]Input, len(entities))
	for i, e := range entities {
		in[i] = Of(e)
	}
	return in
}
