package ground

import "aspgrounder/internal/ast"

// eligible reports whether a body literal can be selected next: ground
// under the current substitution, or a positive predicate-like
// literal (candidates come from J regardless of how many of its variables
// are still free), or a built-in/arithmetic-binding whose variables are all
// already bound. Negation-as-failure literals must already be fully ground;
// a bare AggrLiteral reaching this point is never eligible — the engine treats it
// as a grounder bug (InternalInvariant), not a retryable condition.
func eligible(l ast.Literal, subst ast.Substitution) bool {
	switch lit := l.(type) {
	case *ast.ArithBinding:
		return lit.Expr.Substitute(subst).Ground()
	case *ast.PredLiteral:
		if !lit.Naf() {
			return true
		}
		return lit.Substitute(subst).Ground()
	case *ast.AggrPlaceholder:
		if !lit.Naf() {
			return true
		}
		return lit.Substitute(subst).Ground()
	case *ast.ChoicePlaceholder:
		return true
	case *ast.BuiltinLiteral:
		return lit.Substitute(subst).Ground()
	case *ast.AggrLiteral:
		return false
	default:
		return l.Substitute(subst).Ground()
	}
}

// selectNext picks the first eligible literal among the indices still in
// remaining, in original body order, returning its
// position within remaining. ok is false when no remaining literal is
// eligible — the caller reports UnsafeStatement.
func selectNext(body ast.LiteralCollection, remaining []int, subst ast.Substitution) (pos int, ok bool) {
	for pos, idx := range remaining {
		if eligible(body[idx], subst) {
			return pos, true
		}
	}
	return 0, false
}

func withoutIndex(remaining []int, pos int) []int {
	out := make([]int, 0, len(remaining)-1)
	out = append(out, remaining[:pos]...)
	out = append(out, remaining[pos+1:]...)
	return out
}
