package ground

import (
	"aspgrounder/internal/ast"
	aerrors "aspgrounder/internal/errors"
)

// groundBody enumerates every complete substitution that satisfies body
// against (I, J), calling yield once per success. remaining
// holds the indices of body not yet processed, in original order.
// groundBody returns a *aerrors.Error of kind UnsafeStatement when, on some
// branch, no remaining literal is eligible for selection (InternalInvariant
// if an un-rewritten aggregate is among them); a branch that runs out of
// candidates or fails a built-in simply ends without an error. It also
// propagates any error yield itself returns.
func groundBody(arena *ast.Arena, rule ast.Statement, body ast.LiteralCollection, subst ast.Substitution, remaining []int, I, J *AtomIndex, yield func(ast.Substitution) error) error {
	if len(remaining) == 0 {
		return yield(subst)
	}

	pos, ok := selectNext(body, remaining, subst)
	if !ok {
		// report synthesized ε/η rules at the position of the statement
		// they were derived from, not their own zero position
		errID := rule.ID()
		if origin, synthesized := arena.OriginOf(errID); synthesized {
			errID = origin
		}
		for _, idx := range remaining {
			if a, isAggr := body[idx].(*ast.AggrLiteral); isAggr {
				return aerrors.New(aerrors.InternalInvariant, arena.Pos(errID), "aggregate literal reached the instantiation engine un-rewritten: %s", a)
			}
		}
		return aerrors.New(aerrors.UnsafeStatement, arena.Pos(errID), "no safe selection order for rule %s", rule)
	}
	idx := remaining[pos]
	rest := withoutIndex(remaining, pos)
	lit := body[idx]
	substLit := lit.Substitute(subst)

	switch l := lit.(type) {
	case *ast.ArithBinding:
		b := substLit.(*ast.ArithBinding)
		val := ast.Simplify(b.Expr)
		if !val.Ground() {
			return aerrors.New(aerrors.InternalInvariant, arena.Pos(rule.ID()), "arithmetic binding %s did not simplify to a ground value", b)
		}
		merged, err := ast.Compose(subst, ast.Substitution{l.Var.Variable.Name: val})
		if err != nil {
			return nil
		}
		return groundBody(arena, rule, body, merged, rest, I, J, yield)

	case *ast.BuiltinLiteral:
		b := substLit.(*ast.BuiltinLiteral)
		truth, err := b.Eval()
		if err != nil {
			return aerrors.Wrap(err, aerrors.InternalInvariant, arena.Pos(rule.ID()), "built-in evaluation failed")
		}
		if !truth {
			return nil
		}
		return groundBody(arena, rule, body, subst, rest, I, J, yield)

	case *ast.PredLiteral:
		if l.Naf() {
			p := substLit.(*ast.PredLiteral).Positive()
			if I.Contains(p) {
				return nil
			}
			return groundBody(arena, rule, body, subst, rest, I, J, yield)
		}
		return matchAgainstJ(arena, rule, body, l, subst, rest, I, J, yield)

	case *ast.AggrPlaceholder:
		if l.Naf() {
			p := substLit.(*ast.AggrPlaceholder).AsPredLiteral()
			if I.Contains(p) {
				return nil
			}
			return groundBody(arena, rule, body, subst, rest, I, J, yield)
		}
		pat, _ := asPred(l)
		return matchAgainstJ(arena, rule, body, pat, subst, rest, I, J, yield)

	case *ast.ChoicePlaceholder:
		pat, _ := asPred(l)
		return matchAgainstJ(arena, rule, body, pat, subst, rest, I, J, yield)

	default:
		return aerrors.New(aerrors.InternalInvariant, arena.Pos(rule.ID()), "unsupported body literal %T reached the instantiation engine", lit)
	}
}

// matchAgainstJ enumerates J's candidates for pattern's predicate
// signature, composing each successful match with subst and recursing; a
// composition conflict abandons just that candidate (SubstitutionConflict,
// recovered locally), never the whole rule.
func matchAgainstJ(arena *ast.Arena, rule ast.Statement, body ast.LiteralCollection, pattern *ast.PredLiteral, subst ast.Substitution, rest []int, I, J *AtomIndex, yield func(ast.Substitution) error) error {
	patternSubst := pattern.Substitute(subst).(*ast.PredLiteral)
	for _, cand := range J.Candidates(sigOf(patternSubst)) {
		s, ok := ast.MatchPredLiteral(patternSubst, cand)
		if !ok {
			continue
		}
		merged, err := ast.Compose(subst, s)
		if err != nil {
			continue
		}
		if err := groundBody(arena, rule, body, merged, rest, I, J, yield); err != nil {
			return err
		}
	}
	return nil
}

// groundStatement enumerates every ground instance of a single statement
// against (I, J), calling emit with each resulting ground statement. An
// UnsafeStatement error from an empty (all-ground) body is never raised —
// only a body that genuinely cannot find any eligible literal fails, which
// cannot happen for a body with zero remaining literals.
func groundStatement(arena *ast.Arena, s ast.Statement, I, J *AtomIndex, emit func(ast.Statement) error) error {
	body := s.Body()
	remaining := make([]int, len(body))
	for i := range body {
		remaining[i] = i
	}
	return groundBody(arena, s, body, ast.Identity(), remaining, I, J, func(subst ast.Substitution) error {
		return emit(s.Substitute(subst))
	})
}
