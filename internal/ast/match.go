package ast

import "fmt"

// MatchTerm attempts to match a (possibly non-ground) pattern term against
// a ground candidate term, returning the substitution under which pattern
// becomes syntactically identical to candidate. It performs
// no substitution lookups of its own — the caller applies the
// current partial substitution to pattern before calling Match, exactly as
// the instantiation engine's literal selection does in internal/ground.
func MatchTerm(pattern, candidate Term) (Substitution, bool) {
	switch p := pattern.(type) {
	case *Variable:
		return Substitution{p.Name: candidate}, true
	case *AnonVariable:
		return Substitution{fmt.Sprintf("_#%d", p.id): candidate}, true
	case *Number:
		c, ok := candidate.(*Number)
		return Identity(), ok && c.Value == p.Value
	case *StringTerm:
		c, ok := candidate.(*StringTerm)
		return Identity(), ok && c.Value == p.Value
	case *SymbolicConstant:
		c, ok := candidate.(*SymbolicConstant)
		return Identity(), ok && c.Name == p.Name
	case *Infimum:
		_, ok := candidate.(*Infimum)
		return Identity(), ok
	case *Supremum:
		_, ok := candidate.(*Supremum)
		return Identity(), ok
	case *Functional:
		c, ok := candidate.(*Functional)
		if !ok || c.Name != p.Name || len(c.Args) != len(p.Args) {
			return nil, false
		}
		return MatchTermTuple(p.Args, c.Args)
	case *ArithTerm:
		// replace_arith hoists every non-ground arithmetic sub-term out to
		// an ArithVariable before grounding reaches literal selection; a
		// pattern ArithTerm here can only be ground already (simplified to
		// a Number by Substitute's eager folding).
		if simplified := Simplify(p); simplified != Term(p) {
			return MatchTerm(simplified, candidate)
		}
		return nil, false
	case *ArithVariable:
		return MatchTerm(p.Variable, candidate)
	default:
		return nil, false
	}
}

// MatchTermTuple matches a pattern tuple against a ground candidate tuple
// element-wise, composing bindings and failing on the first conflict or
// arity mismatch.
func MatchTermTuple(pattern, candidate TermTuple) (Substitution, bool) {
	if len(pattern) != len(candidate) {
		return nil, false
	}
	subst := Identity()
	for i := range pattern {
		s, ok := MatchTerm(pattern[i], candidate[i])
		if !ok {
			return nil, false
		}
		merged, err := Compose(subst, s)
		if err != nil {
			return nil, false
		}
		subst = merged
	}
	return subst, true
}

// MatchPredLiteral matches a pattern predicate literal's arguments against
// a ground candidate's, assuming the caller has already filtered candidates
// by (Pred, Arity, Classical) — the literal's predicate signature.
func MatchPredLiteral(pattern, candidate *PredLiteral) (Substitution, bool) {
	if pattern.Pred != candidate.Pred || len(pattern.Args) != len(candidate.Args) || pattern.Classical != candidate.Classical {
		return nil, false
	}
	return MatchTermTuple(pattern.Args, candidate.Args)
}
