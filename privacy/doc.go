// Package privacy evaluates access policies decided by relation chains.
//
// # Core Concepts
//
//   - Policy: an ordered list of rules
//   - Rule: a function returning Allow, Deny or Skip
//   - Viewer: the entity access is evaluated for, carried by the context
//
// # Defining Policies
//
// A comment may be edited by the author of the post it belongs to:
//
//	v := relation.New(store)
//	policy := privacy.Policy{
//	    privacy.ViewerRelatedRule(v, func(ctx context.Context) []relation.Input {
//	        return relation.Chain(post, comment)
//	    }),
//	    privacy.AlwaysDenyRule(), // Deny by default
//	}
//	err := policy.Eval(privacy.WithViewer(ctx, author))
//
// # Rule Evaluation
//
// Rules are evaluated in order until one returns a final decision:
//
//   - Allow: grants access and stops evaluation
//   - Deny: denies access and stops evaluation
//   - Skip: continues to the next rule
//
// A policy whose rules all skip allows access; end it with
// AlwaysDenyRule to deny by default.
//
// # Bypassing Policies
//
// DecisionContext attaches a decision that short-circuits evaluation,
// for example in administrative tools:
//
//	ctx = privacy.DecisionContext(ctx, privacy.Allow)
package privacy
