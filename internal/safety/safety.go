// Package safety implements ASP-Core-2 safety characterization: deciding
// whether every variable in a rule is guaranteed to be bound to a ground
// term by the time the rule is instantiated.
package safety

import "aspgrounder/internal/ast"

// Rule is a conditional safety dependency: the variables in Depends become
// safe as soon as every variable in Requires is safe (e.g. "X is safe if Y
// is safe" for an arithmetic term X = Y+1, or "X is safe" unconditionally
// for X's occurrence in a positive predicate literal).
type Rule struct {
	Depends  ast.VarSet
	Requires ast.VarSet
}

// Triplet is the safety state of a (sub-)expression: the variables already
// known safe, the ones not yet known safe, and the conditional rules that
// might promote an unsafe variable to safe.
type Triplet struct {
	Safe   ast.VarSet
	Unsafe ast.VarSet
	Rules  []Rule
}

// Empty returns the triplet with no variables and no rules, the identity
// element for Merge.
func Empty() Triplet {
	return Triplet{Safe: ast.VarSet{}, Unsafe: ast.VarSet{}}
}

// FromSafe builds a triplet whose variables are already safe, unconditionally.
func FromSafe(vars ast.VarSet) Triplet {
	return Triplet{Safe: vars, Unsafe: ast.VarSet{}}
}

// FromUnsafe builds a triplet whose variables are not yet known safe.
func FromUnsafe(vars ast.VarSet) Triplet {
	return Triplet{Safe: ast.VarSet{}, Unsafe: vars}
}

// Merge combines two triplets (conjunction of two literals' safety
// information): safe/unsafe sets union, minus whatever the union already
// resolves, and rule lists concatenate.
func Merge(a, b Triplet) Triplet {
	out := Triplet{
		Safe:   a.Safe.Union(b.Safe),
		Unsafe: ast.VarSet{},
		Rules:  append(append([]Rule{}, a.Rules...), b.Rules...),
	}
	for name, v := range a.Unsafe.Union(b.Unsafe) {
		if !out.Safe.Contains(name) {
			out.Unsafe[name] = v
		}
	}
	return Normalize(out)
}

// Normalize applies every rule whose Requires set is already a subset of
// Safe, promoting its Depends variables from Unsafe to Safe, repeating
// passes over the remaining rules until a pass promotes nothing, so chains
// of rules are followed to the end within one call.
func Normalize(t Triplet) Triplet {
	safe := make(ast.VarSet, len(t.Safe))
	for k, v := range t.Safe {
		safe[k] = v
	}
	unsafe := make(ast.VarSet, len(t.Unsafe))
	for k, v := range t.Unsafe {
		unsafe[k] = v
	}

	var remaining []Rule
	progressed := true
	for progressed {
		progressed = false
		remaining = remaining[:0]
		for _, r := range t.Rules {
			if subsetOf(r.Requires, safe) {
				for name, v := range r.Depends {
					if _, ok := safe[name]; !ok {
						safe[name] = v
						delete(unsafe, name)
						progressed = true
					}
				}
			} else {
				remaining = append(remaining, r)
			}
		}
		t.Rules = remaining
	}

	return Triplet{Safe: safe, Unsafe: unsafe, Rules: remaining}
}

// Closure repeatedly applies Normalize until the triplet stabilizes (no
// rule can fire and no variable moves from Unsafe to Safe). A rule's body
// is safe once Closure produces an empty Unsafe set.
func Closure(t Triplet) Triplet {
	for {
		next := Normalize(t)
		if len(next.Unsafe) == len(t.Unsafe) && len(next.Rules) == len(t.Rules) {
			return next
		}
		t = next
	}
}

// SafeTriplet reports whether the closure of t leaves no variable unsafe
// and places every variable in globalVars in Safe — i.e. the rule this
// triplet came from is safe.
func SafeTriplet(t Triplet, globalVars ast.VarSet) bool {
	closed := Closure(t)
	if len(closed.Unsafe) != 0 {
		return false
	}
	for name := range globalVars {
		if !closed.Safe.Contains(name) {
			return false
		}
	}
	return true
}

func subsetOf(a, b ast.VarSet) bool {
	for name := range a {
		if !b.Contains(name) {
			return false
		}
	}
	return true
}
