package privacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/modelkit"
)

// Policy decision sentinel errors.
//
// Rules return them, possibly wrapped, to steer the evaluation. Use
// errors.Is() to check for these values:
//
//	if errors.Is(err, privacy.Deny) { ... }
var (
	// Allow terminates the evaluation with an allow decision.
	Allow = errors.New("modelkit/privacy: allow rule")

	// Deny terminates the evaluation with a deny decision.
	Deny = errors.New("modelkit/privacy: deny rule")

	// Skip abstains and moves on to the next rule.
	Skip = errors.New("modelkit/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Rule decides on access. It returns Allow, Deny or Skip, possibly
// wrapped. nil is equivalent to Skip; any other error denies.
type Rule interface {
	Eval(context.Context) error
}

// RuleFunc is an adapter which allows the use of ordinary functions as
// rules.
type RuleFunc func(context.Context) error

// Eval returns f(ctx).
func (f RuleFunc) Eval(ctx context.Context) error {
	return f(ctx)
}

// AlwaysAllowRule returns a rule that always allows.
func AlwaysAllowRule() Rule {
	return RuleFunc(func(context.Context) error { return Allow })
}

// AlwaysDenyRule returns a rule that always denies.
func AlwaysDenyRule() Rule {
	return RuleFunc(func(context.Context) error { return Deny })
}

// Policy is an ordered list of rules.
type Policy []Rule

// Eval evaluates the rules in order. The first Allow ends the evaluation
// with nil, the first Deny or other error is returned as is. A policy
// whose rules all skip allows. A decision attached to ctx with
// DecisionContext takes precedence over the rules.
func (p Policy) Eval(ctx context.Context) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range p {
		switch decision := rule.Eval(ctx); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

type decisionCtxKey struct{}

// DecisionContext creates a new context from the given parent context with
// a policy decision attached to it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type viewerCtxKey struct{}

// WithViewer returns a new context carrying the entity access is
// evaluated for.
func WithViewer(ctx context.Context, viewer modelkit.Entity) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// ViewerFromContext returns the viewer of ctx, or nil.
func ViewerFromContext(ctx context.Context) modelkit.Entity {
	v, _ := ctx.Value(viewerCtxKey{}).(modelkit.Entity)
	return v
}
