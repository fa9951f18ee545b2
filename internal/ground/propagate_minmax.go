package ground

import "aspgrounder/internal/ast"

func termMin(terms []ast.Term) ast.Term {
	best := terms[0]
	for _, t := range terms[1:] {
		if t.Precedes(best) {
			best = t
		}
	}
	return best
}

func termMax(terms []ast.Term) ast.Term {
	best := terms[0]
	for _, t := range terms[1:] {
		if best.Precedes(t) {
			best = t
		}
	}
	return best
}

// propagateMin bounds a MIN aggregate's achievable value: the optimistic lower bound is
// the smallest value among every tuple in the group (certain or not),
// since the solver could always end up choosing that element true; the
// optimistic upper bound is the smallest value among only the certain
// tuples (uncertain tuples can only lower the realized minimum, never
// raise it) — or Supremum, the function's identity, if no tuple is
// certain.
func propagateMin(lguard, rguard *ast.Guard, certainValues, uncertainValues []ast.Term) (satisfiable, valid bool) {
	base := ast.NewSupremum(0)
	all := append(append([]ast.Term{}, certainValues...), uncertainValues...)

	var lo, hi ast.Term
	if len(all) == 0 {
		lo, hi = base, base
	} else {
		lo = termMin(all)
		if len(certainValues) == 0 {
			hi = base
		} else {
			hi = termMin(certainValues)
		}
	}
	return guardsDecide(lguard, rguard, lo, hi)
}

// propagateMax is MIN's dual: the optimistic upper bound is the largest
// value among all tuples, and the optimistic lower bound is the largest
// among only the certain tuples (or Infimum, the identity, if none are
// certain).
func propagateMax(lguard, rguard *ast.Guard, certainValues, uncertainValues []ast.Term) (satisfiable, valid bool) {
	base := ast.NewInfimum(0)
	all := append(append([]ast.Term{}, certainValues...), uncertainValues...)

	var lo, hi ast.Term
	if len(all) == 0 {
		lo, hi = base, base
	} else {
		hi = termMax(all)
		if len(certainValues) == 0 {
			lo = base
		} else {
			lo = termMax(certainValues)
		}
	}
	return guardsDecide(lguard, rguard, lo, hi)
}
