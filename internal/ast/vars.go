package ast

// GlobalVars returns the variables of a statement that appear outside
// every aggregate/choice element: for most statements this is
// simply every head and (non-element) body variable; for a ChoiceRule the
// head *is* its elements, so only the rule's plain body and the choice's
// own guards count.
func GlobalVars(s Statement) VarSet {
	switch r := s.(type) {
	case *ChoiceRule:
		vars := outerBodyVars(r.Literals)
		return vars.Union(guardVars(r.Head_.LGuard)).Union(guardVars(r.Head_.RGuard))
	case *WeakConstraint:
		return outerBodyVars(r.Literals).Union(r.Weight.Vars())
	default:
		vars := s.Head().Vars()
		return vars.Union(outerBodyVars(s.Body()))
	}
}

// outerBodyVars sums a body's variables, but for an AggrLiteral only counts
// its guard variables — the variables local to its elements are excluded
// (they become the ε/η rule's local_i tuple in internal/rewrite, never a
// global variable of the owning rule).
func outerBodyVars(body LiteralCollection) VarSet {
	vars := make(VarSet)
	for _, l := range body {
		if a, ok := l.(*AggrLiteral); ok {
			vars = vars.Union(guardVars(a.LGuard)).Union(guardVars(a.RGuard))
			continue
		}
		vars = vars.Union(l.Vars())
	}
	return vars
}

func guardVars(g *Guard) VarSet {
	if g == nil {
		return nil
	}
	return g.Bound.Vars()
}

// LocalVars returns the variables of an aggregate element or choice
// element that are not among the rule's global variables, in the fixed
// order the rewriter fixes at rewrite time: sorted by name for determinism, since
// the source order of variable occurrence is not otherwise tracked.
func LocalVars(elemVars VarSet, global VarSet) []*Variable {
	var out []*Variable
	for _, v := range elemVars.Sorted() {
		if !global.Contains(v.Name) {
			out = append(out, v)
		}
	}
	return out
}
