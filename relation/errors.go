package relation

import (
	"errors"
	"fmt"
)

// Kind classifies why a chain is not related.
type Kind int

const (
	// InvalidReference means an input did not carry a persisted entity.
	InvalidReference Kind = iota + 1
	// UnknownAssociation means the association name does not resolve on
	// the source entity.
	UnknownAssociation
	// RelatedRecordNotFound means the target id is not in the association.
	RelatedRecordNotFound
	// TooFewLinks means fewer than two inputs were supplied.
	TooFewLinks
	// StoreFailure is any other store error, including cancellation.
	StoreFailure
)

var kindNames = [...]string{
	InvalidReference:      "invalid reference",
	UnknownAssociation:    "unknown association",
	RelatedRecordNotFound: "related record not found",
	TooFewLinks:           "too few links",
	StoreFailure:          "store failure",
}

// String returns the kind name.
func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error describes the first failing step of a chain.
type Error struct {
	Kind        Kind
	Index       int    // Index of the failing input.
	Association string // Association being resolved, if any.
	Err         error  // Underlying store error, if any.
}

// Error returns the error string.
func (e *Error) Error() string {
	msg := fmt.Sprintf("relation: link %d: %s", e.Index, e.Kind)
	if e.Association != "" {
		msg += fmt.Sprintf(" (association %q)", e.Association)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a relation error, or 0 when err is nil or
// not a relation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
