package relation

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/modelkit"
)

// Validator checks whether chains of entities are connected through
// named associations. A Validator holds no per-call state and is safe
// for concurrent use.
type Validator struct {
	store       Store
	inflector   Inflector
	logger      *slog.Logger
	concurrency int
}

// Option configures the Validator.
type Option func(*Validator)

// WithInflector sets the inflector used to derive default association
// names. Default is DefaultInflector.
func WithInflector(inf Inflector) Option {
	return func(v *Validator) {
		if inf != nil {
			v.inflector = inf
		}
	}
}

// WithLogger sets the logger failed checks are reported to at debug
// level. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithConcurrency checks up to n adjacent pairs in parallel. The first
// failing pair cancels the others. Default is 1 (sequential).
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// New returns a Validator reading from store.
func New(store Store, opts ...Option) *Validator {
	v := &Validator{
		store:       store,
		inflector:   DefaultInflector,
		logger:      slog.Default(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AreRelated reports whether every entity of the chain is reachable from
// its predecessor through the named association. Any failure, whether a
// malformed input, an unknown association or a missing record, yields
// false. Use Check to learn which.
func (v *Validator) AreRelated(ctx context.Context, inputs ...Input) bool {
	return v.Check(ctx, inputs...) == nil
}

// Check is the diagnostic form of AreRelated. It returns nil when the
// chain is related and a *Error describing the first failure otherwise.
func (v *Validator) Check(ctx context.Context, inputs ...Input) error {
	err := v.check(ctx, inputs)
	var e *Error
	if errors.As(err, &e) {
		v.logger.DebugContext(ctx, "relation check failed",
			"kind", e.Kind.String(),
			"index", e.Index,
			"association", e.Association,
			"err", e.Err,
		)
		return err
	}
	return nil
}

func (v *Validator) check(ctx context.Context, inputs []Input) error {
	if len(inputs) < 2 {
		return &Error{Kind: TooFewLinks, Index: len(inputs)}
	}
	links, err := v.Normalize(inputs...)
	if err != nil {
		return err
	}
	if v.concurrency <= 1 {
		for k := 0; k < len(links)-1; k++ {
			if err := v.pair(ctx, links, k); err != nil {
				return err
			}
		}
		return nil
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(v.concurrency)
	for k := 0; k < len(links)-1; k++ {
		eg.Go(func() error {
			return v.pair(ctx, links, k)
		})
	}
	return eg.Wait()
}

// Normalize converts inputs into links, filling in default association
// names. It fails with an InvalidReference error on the first input that
// does not carry a persisted entity.
func (v *Validator) Normalize(inputs ...Input) ([]Link, error) {
	links := make([]Link, len(inputs))
	for i, in := range inputs {
		if in == nil {
			return nil, &Error{Kind: InvalidReference, Index: i}
		}
		l := in.normalize(v.inflector)
		if !modelkit.Valid(l.Entity) {
			return nil, &Error{Kind: InvalidReference, Index: i, Association: l.Association}
		}
		links[i] = l
	}
	return links, nil
}

// pair checks that links[k+1] is in the association of links[k] it names.
func (v *Validator) pair(ctx context.Context, links []Link, k int) error {
	src, dst := links[k], links[k+1]
	acc, err := v.store.ResolveAssociation(ctx, src.Entity, dst.Association)
	if err != nil {
		return v.storeError(k+1, dst.Association, err, UnknownAssociation)
	}
	if acc == nil {
		return &Error{Kind: UnknownAssociation, Index: k + 1, Association: dst.Association}
	}
	if _, err := v.store.FindInAccessor(ctx, acc, dst.Entity.EntityID()); err != nil {
		return v.storeError(k+1, dst.Association, err, RelatedRecordNotFound)
	}
	return nil
}

// storeError classifies a store error. Errors of the expected kind for
// the step map to want; anything else is a StoreFailure.
func (v *Validator) storeError(index int, association string, err error, want Kind) *Error {
	kind := StoreFailure
	switch {
	case modelkit.IsUnknownAssociation(err):
		kind = UnknownAssociation
	case modelkit.IsNotFound(err) && want == RelatedRecordNotFound:
		kind = RelatedRecordNotFound
	}
	return &Error{Kind: kind, Index: index, Association: association, Err: err}
}
