package ast

import "fmt"

// VarTable allocates the fresh ArithVariable names ReplaceArith introduces
// for one statement; the ArithBinding literals that constrain them are
// returned to the caller, not kept here. It is owned by the statement being
// processed, never shared or process-global.
type VarTable struct {
	arena *Arena
	next  int
}

func NewVarTable(arena *Arena) *VarTable {
	return &VarTable{arena: arena}
}

func (vt *VarTable) fresh(origin NodeID) *ArithVariable {
	name := fmt.Sprintf("_Arith%d", vt.next)
	vt.next++
	id := vt.arena.Derive(origin)
	return NewArithVariable(NewVariable(id, name))
}

// ArithBinding is the synthetic literal ReplaceArith introduces in place of
// a non-ground arithmetic term found in a pattern position: "Var = Expr".
// Unlike a BuiltinLiteral comparison, its selection rule (internal/ground)
// only requires Expr's variables to be bound, never Var's — selecting it
// binds Var by evaluating Expr rather than matching two already-ground
// sides.
type ArithBinding struct {
	id   NodeID
	Var  *ArithVariable
	Expr Term
}

func NewArithBinding(id NodeID, v *ArithVariable, expr Term) *ArithBinding {
	return &ArithBinding{id: id, Var: v, Expr: expr}
}

func (*ArithBinding) isLiteral()     {}
func (b *ArithBinding) ID() NodeID   { return b.id }
func (b *ArithBinding) Naf() bool    { return false }
func (b *ArithBinding) Ground() bool { return b.Expr.Ground() }
func (b *ArithBinding) Vars() VarSet { return b.Expr.Vars() }

func (b *ArithBinding) String() string {
	return fmt.Sprintf("%s=%s", b.Var, b.Expr)
}

func (b *ArithBinding) Substitute(subst Substitution) Literal {
	return &ArithBinding{id: b.id, Var: b.Var, Expr: b.Expr.Substitute(subst)}
}

// replaceArithTerm replaces t with a fresh ArithVariable if t is a
// non-ground ArithTerm, returning the binding that defines it (nil when t is
// returned unchanged). Ground arithmetic is
// left to Simplify (already constant-folded by construction); plain
// variables and constants are returned unchanged.
func replaceArithTerm(t Term, vt *VarTable) (Term, *ArithBinding) {
	a, ok := t.(*ArithTerm)
	if !ok || a.Ground() {
		return t, nil
	}
	v := vt.fresh(a.ID())
	return v, NewArithBinding(vt.arena.Derive(a.ID()), v, a)
}

func replaceArithTermTuple(tt TermTuple, vt *VarTable) (TermTuple, []*ArithBinding) {
	out := make(TermTuple, len(tt))
	var bindings []*ArithBinding
	for i, t := range tt {
		nt, b := replaceArithTerm(t, vt)
		out[i] = nt
		if b != nil {
			bindings = append(bindings, b)
		}
	}
	return out, bindings
}

// ReplaceArithBody hoists non-ground arithmetic out of every PredLiteral's
// argument positions in body, appending one ArithBinding literal per
// hoisted sub-term. Idempotent: re-running it on the result is a
// no-op because no PredLiteral argument contains an ArithTerm anymore.
// Built-in, aggregate and placeholder literals are left untouched — they
// are evaluated directly once their variables are bound, never matched
// against a candidate set, so they do not need to be pure patterns.
func ReplaceArithBody(body LiteralCollection, vt *VarTable) LiteralCollection {
	out := make(LiteralCollection, 0, len(body))
	var bindings []*ArithBinding
	for _, l := range body {
		p, ok := l.(*PredLiteral)
		if !ok {
			out = append(out, l)
			continue
		}
		args, bs := replaceArithTermTuple(p.Args, vt)
		out = append(out, NewPredLiteral(p.id, p.Pred, args, p.Negated, p.Classical))
		bindings = append(bindings, bs...)
	}
	for _, b := range bindings {
		out = append(out, b)
	}
	return out
}

// ReplaceArithStatement runs ReplaceArithBody over s's body, using a
// VarTable scoped to this one statement. Statements with no body of
// their own (Fact, OptimizeStatement) pass through unchanged.
func ReplaceArithStatement(arena *Arena, s Statement) Statement {
	vt := NewVarTable(arena)
	switch r := s.(type) {
	case *Fact:
		return r
	case *NormalRule:
		return NewNormalRule(r.id, r.Atom, ReplaceArithBody(r.Literals, vt))
	case *DisjunctiveRule:
		return NewDisjunctiveRule(r.id, r.Atoms, ReplaceArithBody(r.Literals, vt))
	case *ChoiceRule:
		return NewChoiceRule(r.id, r.Head_, ReplaceArithBody(r.Literals, vt))
	case *Constraint:
		return NewConstraint(r.id, ReplaceArithBody(r.Literals, vt))
	case *WeakConstraint:
		return NewWeakConstraint(r.id, ReplaceArithBody(r.Literals, vt), r.Weight)
	case *AggrBaseRule:
		return NewAggrBaseRule(r.id, r.Placeholder, ReplaceArithBody(r.Literals, vt))
	case *AggrElemRule:
		return NewAggrElemRule(r.id, r.Placeholder, r.Element, ReplaceArithBody(r.Literals, vt))
	case *ChoiceBaseRule:
		return NewChoiceBaseRule(r.id, r.Placeholder, ReplaceArithBody(r.Literals, vt))
	case *ChoiceElemRule:
		return NewChoiceElemRule(r.id, r.Placeholder, r.Element, ReplaceArithBody(r.Literals, vt))
	case *OptimizeStatement:
		return r
	default:
		return s
	}
}
