package modelkit

import (
	"fmt"
	"reflect"
)

// Entity is a reference to a persisted record of some entity type.
// EntityType returns the type tag (e.g. "Author") and EntityID the
// record identifier. Identifiers must be comparable.
type Entity interface {
	EntityType() string
	EntityID() any
}

// Ref is the plain Entity implementation. It is what stores hand back
// from lookups and what callers use when they only hold a type and an id.
type Ref struct {
	Type string
	ID   any
}

// NewRef returns a Ref for the given type tag and identifier.
func NewRef(typ string, id any) Ref {
	return Ref{Type: typ, ID: id}
}

// EntityType implements the Entity interface.
func (r Ref) EntityType() string { return r.Type }

// EntityID implements the Entity interface.
func (r Ref) EntityID() any { return r.ID }

// String returns the "Type#id" form of the reference.
func (r Ref) String() string {
	return fmt.Sprintf("%s#%v", r.Type, r.ID)
}

// RefOf copies the type and identifier of e into a Ref.
func RefOf(e Entity) Ref {
	return Ref{Type: e.EntityType(), ID: e.EntityID()}
}

// Valid reports whether e references a persisted record: it must be
// non-nil, carry a type tag, and have a non-zero comparable identifier.
func Valid(e Entity) bool {
	if e == nil {
		return false
	}
	if rv := reflect.ValueOf(e); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}
	if e.EntityType() == "" {
		return false
	}
	id := e.EntityID()
	if id == nil {
		return false
	}
	rv := reflect.ValueOf(id)
	if !rv.Comparable() {
		return false
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}
	return !rv.IsZero()
}
