package ground

import "aspgrounder/internal/ast"

// mirror swaps a relational operator's sidedness: "bound op value" holds
// iff "value mirror(op) bound" holds. Guard.Right tells a guard's own
// sidedness; mirror lets propagate treat both forms uniformly as a
// condition on the aggregated/counted value.
func mirror(op ast.RelOp) ast.RelOp {
	switch op {
	case ast.RelLt:
		return ast.RelGt
	case ast.RelLe:
		return ast.RelGe
	case ast.RelGt:
		return ast.RelLt
	case ast.RelGe:
		return ast.RelLe
	default:
		return op
	}
}

func precedesOrEq(a, b ast.Term) bool {
	return a.String() == b.String() || a.Precedes(b)
}

// valueOp normalizes a guard into a "value op bound" comparison regardless
// of which side of the aggregate the guard was written on.
func valueOp(g *ast.Guard) (ast.RelOp, ast.Term) {
	op := g.Op
	if !g.Right {
		op = mirror(op)
	}
	return op, g.Bound
}

// guardSatisfiable reports whether some achievable value in [lo, hi] (a
// totally-ordered range of candidate aggregate/count values) could
// satisfy g. A nil guard is trivially satisfiable. lo and hi must already
// be ground terms comparable under Term.Precedes.
func guardSatisfiable(g *ast.Guard, lo, hi ast.Term) bool {
	if g == nil {
		return true
	}
	op, bound := valueOp(g)
	switch op {
	case ast.RelEq:
		return precedesOrEq(lo, bound) && precedesOrEq(bound, hi)
	case ast.RelNe:
		return !(lo.String() == hi.String() && hi.String() == bound.String())
	case ast.RelLt:
		return lo.Precedes(bound)
	case ast.RelLe:
		return precedesOrEq(lo, bound)
	case ast.RelGt:
		return bound.Precedes(hi)
	case ast.RelGe:
		return precedesOrEq(bound, hi)
	default:
		return true
	}
}

// guardValid reports whether every achievable value in [lo, hi] satisfies
// g — the aggregate's guard holds in every model, making the placeholder a
// certain atom rather than a merely possible one (the distinction NAF on
// an aggregate turns on).
func guardValid(g *ast.Guard, lo, hi ast.Term) bool {
	if g == nil {
		return true
	}
	op, bound := valueOp(g)
	switch op {
	case ast.RelEq:
		return lo.String() == bound.String() && hi.String() == bound.String()
	case ast.RelNe:
		return bound.Precedes(lo) || hi.Precedes(bound)
	case ast.RelLt:
		return hi.Precedes(bound)
	case ast.RelLe:
		return precedesOrEq(hi, bound)
	case ast.RelGt:
		return bound.Precedes(lo)
	case ast.RelGe:
		return precedesOrEq(bound, lo)
	default:
		return true
	}
}

// guardsDecide evaluates both guards of one aggregate group against the
// achievable value range [lo, hi], returning the could-hold satisfiability verdict
// plus the stronger every-model validity verdict.
func guardsDecide(lguard, rguard *ast.Guard, lo, hi ast.Term) (satisfiable, valid bool) {
	satisfiable = guardSatisfiable(lguard, lo, hi) && guardSatisfiable(rguard, lo, hi)
	valid = guardValid(lguard, lo, hi) && guardValid(rguard, lo, hi)
	return satisfiable, valid
}
