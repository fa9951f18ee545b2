package ast

import "fmt"

// Substitution maps variable names to terms. AnonVariable occurrences use
// the synthetic key produced by AnonVariable.Vars/Substitute, so anonymous
// variables never collide across literals.
type Substitution map[string]Term

// Identity is the substitution that maps every variable to itself.
func Identity() Substitution { return Substitution{} }

// ConflictError reports that two substitutions disagree on the binding of
// a variable; it is the cause wrapped into errors.SubstitutionConflict.
type ConflictError struct {
	Var      string
	First    Term
	Second   Term
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting substitution for %s: %s vs %s", e.Var, e.First, e.Second)
}

// Compose merges s and other into a single substitution. It fails with a
// *ConflictError if both substitutions bind the same variable to different
// terms (the instantiation engine uses this to reject a candidate match
// rather than silently picking one binding).
func Compose(s, other Substitution) (Substitution, error) {
	out := make(Substitution, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		if existing, ok := out[k]; ok && !termsEqual(existing, v) {
			return nil, &ConflictError{Var: k, First: existing, Second: v}
		}
		out[k] = v
	}
	return out, nil
}

// termsEqual reports structural equality of two ground-or-not terms by
// string form; terms in a single grounding run are always built from the
// same arena, so distinct variables can never print identically.
func termsEqual(a, b Term) bool {
	return a.String() == b.String()
}
