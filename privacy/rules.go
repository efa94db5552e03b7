package privacy

import (
	"context"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/relation"
)

// ChainFunc builds the chain a rule checks from the request context.
type ChainFunc func(context.Context) []relation.Input

// RelatedRule allows when the chain is related and skips when it is not.
// Store failures deny with the failure as cause.
func RelatedRule(v *relation.Validator, chain ChainFunc) Rule {
	return RuleFunc(func(ctx context.Context) error {
		err := v.Check(ctx, chain(ctx)...)
		switch relation.KindOf(err) {
		case 0:
			return Allow
		case relation.StoreFailure:
			return Denyf("modelkit/privacy: %v", err)
		default:
			return Skipf("modelkit/privacy: %v", err)
		}
	})
}

// ViewerRelatedRule is RelatedRule for chains starting at the viewer of
// the context. It denies when the context has no valid viewer.
//
//	privacy.ViewerRelatedRule(v, func(ctx context.Context) []relation.Input {
//		return relation.Chain(post, comment)
//	})
func ViewerRelatedRule(v *relation.Validator, rest ChainFunc) Rule {
	related := RelatedRule(v, func(ctx context.Context) []relation.Input {
		return append([]relation.Input{relation.Of(ViewerFromContext(ctx))}, rest(ctx)...)
	})
	return RuleFunc(func(ctx context.Context) error {
		if !modelkit.Valid(ViewerFromContext(ctx)) {
			return Denyf("modelkit/privacy: missing viewer")
		}
		return related.Eval(ctx)
	})
}

// DenyUnlessRelatedRule denies when the chain is not related and skips
// otherwise, so later rules still run.
func DenyUnlessRelatedRule(v *relation.Validator, chain ChainFunc) Rule {
	return RuleFunc(func(ctx context.Context) error {
		if err := v.Check(ctx, chain(ctx)...); err != nil {
			return Denyf("modelkit/privacy: %v", err)
		}
		return Skip
	})
}
