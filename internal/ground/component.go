package ground

import (
	"context"

	"aspgrounder/internal/ast"
	aerrors "aspgrounder/internal/errors"
	"aspgrounder/internal/rewrite"
)

// groundFixpoint runs one component's fixpoint over stmts: repeatedly
// ground every statement against (I, J), folding newly produced head atoms
// into J and handing each new ground statement to emit, until a full pass
// adds nothing. I is never mutated; J is mutated in place (callers pass a
// clone seeded from the preceding components' possible set).
func groundFixpoint(ctx context.Context, arena *ast.Arena, stmts []ast.Statement, I, J *AtomIndex, emit func(ast.Statement) (bool, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		added := 0
		for _, s := range stmts {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := groundStatement(arena, s, I, J, func(ground ast.Statement) error {
				isNew, err := emit(ground)
				if err != nil {
					return err
				}
				if !isNew {
					return nil
				}
				for _, atom := range headAtoms(ground) {
					if J.Add(atom) {
						added++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		if added == 0 {
			return nil
		}
	}
}

// isAux reports whether s is one of the synthesized epsilon/eta statements
// internal/rewrite produces for an aggregate or choice — plumbing
// internal to one component's assembly, never part of the final ground
// program on its own.
func isAux(s ast.Statement) bool {
	switch s.(type) {
	case *ast.AggrBaseRule, *ast.AggrElemRule, *ast.ChoiceBaseRule, *ast.ChoiceElemRule:
		return true
	default:
		return false
	}
}

func splitAuxReal(stmts []ast.Statement) (aux, real []ast.Statement) {
	for _, s := range stmts {
		if isAux(s) {
			aux = append(aux, s)
		} else {
			real = append(real, s)
		}
	}
	return aux, real
}

// groundComponent grounds one SCC of the refined instantiation sequence
// against the certain set I and possible set J settled by the
// preceding components, returning the enlarged (I, J) pair:
//
//  1. The component's synthesized aggregate/choice aux statements run to
//     their own fixpoint, producing every ground ε/η instance.
//  2. The propagation step groups those instances by (ref, ground global
//     tuple), decides each aggregate group's guard satisfiability, and
//     reconstructs each choice group's ground ChoiceRule. Satisfiable
//     placeholder atoms seed the possible set the real statements ground
//     against; placeholders whose guards hold under every model
//     additionally seed the certain set, so NAF on an aggregate behaves
//     exactly like NAF on an ordinary certain atom.
//  3. The component's real statements run their own fixpoint; every
//     emitted ground statement has its placeholder body literals replaced
//     by the assembled ground aggregate before it joins
//     the output program.
//  4. A final certainty pass promotes into I every head atom derivable
//     through a body whose positive literals are all certain and whose NAF
//     literals' atoms are not even possible — the atoms later components
//     may treat as facts when refuting their own NAF literals.
//
// This assumes a component's real statements never recursively depend on an
// aggregate/choice synthesized from another statement in the very same
// component (the common, non-recursive-aggregate case) — a same-component
// cycle through the aggregate back into the rule that owns it is not
// resolved by this two-phase split. See DESIGN.md.
func groundComponent(ctx context.Context, arena *ast.Arena, stmts []ast.Statement, I, J *AtomIndex, rules *RuleSet, aggrMap map[int]*rewrite.AggrEntry, choiceMap map[int]*rewrite.ChoiceEntry, asm *assembler) (*AtomIndex, *AtomIndex, error) {
	aux, real := splitAuxReal(stmts)

	Jaux := J.Clone()
	auxRules := NewRuleSet()
	err := groundFixpoint(ctx, arena, aux, I, Jaux, func(g ast.Statement) (bool, error) {
		isNew, err := auxRules.Add(g)
		if err != nil {
			return false, aerrors.Wrap(err, aerrors.InternalInvariant, arena.Pos(g.ID()), "hashing ground statement")
		}
		return isNew, nil
	})
	if err != nil {
		return nil, nil, err
	}

	aggrGroups := collectAggrGroups(auxRules.Rows, I, Jaux)
	choiceGroups := collectChoiceGroups(auxRules.Rows)

	Icomp := I.Clone()
	Jreal := J.Clone()
	resolveAggrGroups(arena, aggrGroups, aggrMap, Icomp, Jreal, asm)
	if err := resolveChoiceGroups(arena, choiceGroups, choiceMap, Jreal, rules); err != nil {
		return nil, nil, err
	}

	emitted := NewRuleSet()
	err = groundFixpoint(ctx, arena, real, Icomp, Jreal, func(g ast.Statement) (bool, error) {
		isNew, err := emitted.Add(g)
		if err != nil {
			return false, aerrors.Wrap(err, aerrors.InternalInvariant, arena.Pos(g.ID()), "hashing ground statement")
		}
		if !isNew {
			return false, nil
		}
		if _, err := rules.Add(asm.assemble(g)); err != nil {
			return false, aerrors.Wrap(err, aerrors.InternalInvariant, arena.Pos(g.ID()), "hashing ground statement")
		}
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	propagateCertain(emitted.Rows, Icomp, Jreal)
	return Icomp, Jreal, nil
}

// propagateCertain runs the certainty fixpoint over a component's emitted
// (pre-assembly) ground instances: a normal rule's head atom is certain
// once every positive body literal is certain and every NAF literal's atom
// is not even possible. Disjunctive and choice heads are never certain —
// the solver chooses among them.
func propagateCertain(emitted []ast.Statement, I, J *AtomIndex) {
	for changed := true; changed; {
		changed = false
		for _, s := range emitted {
			var head *ast.PredLiteral
			switch r := s.(type) {
			case *ast.Fact:
				head = r.Atom
			case *ast.NormalRule:
				head = r.Atom
			default:
				continue
			}
			if I.Contains(head) {
				continue
			}
			if bodyCertain(s.Body(), I, J) {
				I.Add(head)
				changed = true
			}
		}
	}
}

// bodyCertain reports whether every literal of a fully ground body is
// certainly true against (I, J): positive atoms must be in I, NAF atoms
// must be absent from J entirely (merely not-yet-derived is not enough —
// a possible atom may still turn true in some model).
func bodyCertain(body ast.LiteralCollection, I, J *AtomIndex) bool {
	for _, l := range body {
		switch lit := l.(type) {
		case *ast.PredLiteral:
			if lit.Naf() {
				if J.Contains(lit.Positive()) {
					return false
				}
			} else if !I.Contains(lit) {
				return false
			}
		case *ast.AggrPlaceholder:
			p := lit.AsPredLiteral()
			if lit.Naf() {
				if J.Contains(p) {
					return false
				}
			} else if !I.Contains(p) {
				return false
			}
		case *ast.BuiltinLiteral:
			truth, err := lit.Eval()
			if err != nil || !truth {
				return false
			}
		case *ast.ArithBinding:
			// a ground binding literal holds by construction.
		default:
			return false
		}
	}
	return true
}
