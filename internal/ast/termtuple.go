package ast

import "strings"

// TermTuple is an ordered tuple of terms, used for functional-term
// arguments and predicate-literal arguments.
type TermTuple []Term

func (t TermTuple) String() string {
	parts := make([]string, len(t))
	for i, term := range t {
		parts[i] = term.String()
	}
	return strings.Join(parts, ",")
}

func (t TermTuple) Ground() bool {
	for _, term := range t {
		if !term.Ground() {
			return false
		}
	}
	return true
}

func (t TermTuple) Vars() VarSet {
	vars := make(VarSet)
	for _, term := range t {
		vars = vars.Union(term.Vars())
	}
	return vars
}

func (t TermTuple) Substitute(subst Substitution) TermTuple {
	out := make(TermTuple, len(t))
	for i, term := range t {
		out[i] = term.Substitute(subst)
	}
	return out
}

// Precedes compares two tuples lexicographically by the term total order,
// shorter tuples first on equal prefixes.
func (t TermTuple) Precedes(other TermTuple) bool {
	for i := 0; i < len(t) && i < len(other); i++ {
		if t[i].Precedes(other[i]) {
			return true
		}
		if other[i].Precedes(t[i]) {
			return false
		}
	}
	return len(t) < len(other)
}
