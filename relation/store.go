package relation

import (
	"context"

	"github.com/syssam/modelkit"
)

// Accessor is the resolved association of one source entity, the set
// of related entities a lookup runs against.
type Accessor interface {
	Source() modelkit.Entity
	Association() string
}

// Store is the persistence layer the validator reads through.
//
// ResolveAssociation returns a *modelkit.UnknownAssociationError when
// name is not an association of the entity type. FindInAccessor returns
// a *modelkit.NotFoundError when no entity with the id is in the set.
// Implementations must not write.
type Store interface {
	ResolveAssociation(ctx context.Context, e modelkit.Entity, name string) (Accessor, error)
	FindInAccessor(ctx context.Context, acc Accessor, id any) (modelkit.Entity, error)
}
