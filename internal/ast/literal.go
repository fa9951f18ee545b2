package ast

import (
	"fmt"
	"strings"
)

// Literal is the marker interface implemented by every literal variant:
// PredLiteral, BuiltinLiteral, AggrLiteral, AggrPlaceholder,
// ChoicePlaceholder and ArithBinding.
type Literal interface {
	isLiteral()
	fmt.Stringer
	ID() NodeID
	// Naf reports whether the literal is negated by default negation
	// ("not").
	Naf() bool
	Ground() bool
	Vars() VarSet
	Substitute(subst Substitution) Literal
}

// RelOp is a relational/comparison operator.
type RelOp int

const (
	RelEq RelOp = iota
	RelNe
	RelLt
	RelLe
	RelGt
	RelGe
)

func (op RelOp) String() string {
	switch op {
	case RelEq:
		return "="
	case RelNe:
		return "!="
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelGt:
		return ">"
	case RelGe:
		return ">="
	default:
		return "?"
	}
}

// Negate returns the logical negation of op (= and !=, < and >=, <= and >
// swap).
func (op RelOp) Negate() RelOp {
	switch op {
	case RelEq:
		return RelNe
	case RelNe:
		return RelEq
	case RelLt:
		return RelGe
	case RelLe:
		return RelGt
	case RelGt:
		return RelLe
	case RelGe:
		return RelLt
	default:
		return op
	}
}

// PredLiteral is an atom of a predicate applied to a term tuple, optionally
// negated by default negation and/or classical negation.
type PredLiteral struct {
	id        NodeID
	Pred      string
	Args      TermTuple
	Negated   bool // default negation ("not")
	Classical bool // classical negation ("-p(X)")
}

func NewPredLiteral(id NodeID, pred string, args TermTuple, negated, classical bool) *PredLiteral {
	return &PredLiteral{id: id, Pred: pred, Args: args, Negated: negated, Classical: classical}
}

func (*PredLiteral) isLiteral()     {}
func (l *PredLiteral) ID() NodeID   { return l.id }
func (l *PredLiteral) Naf() bool    { return l.Negated }
func (l *PredLiteral) Ground() bool { return l.Args.Ground() }
func (l *PredLiteral) Vars() VarSet { return l.Args.Vars() }

// Arity is the number of arguments; it is part of the predicate's signature
// alongside Pred, so pos/neg dependency edges (internal/depgraph) must key
// on (Pred, Arity), not Pred alone.
func (l *PredLiteral) Arity() int { return len(l.Args) }

func (l *PredLiteral) String() string {
	parts := make([]string, len(l.Args))
	for i, a := range l.Args {
		parts[i] = a.String()
	}
	s := l.Pred
	if len(parts) > 0 {
		s = fmt.Sprintf("%s(%s)", s, strings.Join(parts, ","))
	}
	if l.Classical {
		s = "-" + s
	}
	if l.Negated {
		s = "not " + s
	}
	return s
}

func (l *PredLiteral) Substitute(subst Substitution) Literal {
	return &PredLiteral{id: l.id, Pred: l.Pred, Args: l.Args.Substitute(subst), Negated: l.Negated, Classical: l.Classical}
}

// Positive returns a copy of the literal without default negation, used by
// the instantiation engine to look the atom up against the certain/possible
// sets regardless of the literal's own polarity.
func (l *PredLiteral) Positive() *PredLiteral {
	return &PredLiteral{id: l.id, Pred: l.Pred, Args: l.Args, Negated: false, Classical: l.Classical}
}

// BuiltinLiteral is a comparison between two terms (arithmetic or
// otherwise); it never binds a variable itself unless resolved through an
// enclosing arithmetic-variable safety rule.
type BuiltinLiteral struct {
	id       NodeID
	Op       RelOp
	Lhs, Rhs Term
	Negated  bool
}

func NewBuiltinLiteral(id NodeID, op RelOp, lhs, rhs Term, negated bool) *BuiltinLiteral {
	return &BuiltinLiteral{id: id, Op: op, Lhs: lhs, Rhs: rhs, Negated: negated}
}

func (*BuiltinLiteral) isLiteral()     {}
func (l *BuiltinLiteral) ID() NodeID   { return l.id }
func (l *BuiltinLiteral) Naf() bool    { return l.Negated }
func (l *BuiltinLiteral) Ground() bool { return l.Lhs.Ground() && l.Rhs.Ground() }
func (l *BuiltinLiteral) Vars() VarSet { return l.Lhs.Vars().Union(l.Rhs.Vars()) }

func (l *BuiltinLiteral) String() string {
	s := fmt.Sprintf("%s%s%s", l.Lhs, l.Op, l.Rhs)
	if l.Negated {
		s = "not " + s
	}
	return s
}

func (l *BuiltinLiteral) Substitute(subst Substitution) Literal {
	return &BuiltinLiteral{id: l.id, Op: l.Op, Lhs: l.Lhs.Substitute(subst), Rhs: l.Rhs.Substitute(subst), Negated: l.Negated}
}

// Eval evaluates a ground BuiltinLiteral's relation, returning an error if
// either side is not ground.
func (l *BuiltinLiteral) Eval() (bool, error) {
	if !l.Ground() {
		return false, fmt.Errorf("ast: cannot evaluate non-ground built-in literal %s", l)
	}
	res, err := compareTerms(l.Lhs, l.Rhs)
	if err != nil {
		return false, err
	}
	var truth bool
	switch l.Op {
	case RelEq:
		truth = res == 0
	case RelNe:
		truth = res != 0
	case RelLt:
		truth = res < 0
	case RelLe:
		truth = res <= 0
	case RelGt:
		truth = res > 0
	case RelGe:
		truth = res >= 0
	}
	if l.Negated {
		truth = !truth
	}
	return truth, nil
}

// compareTerms compares two ground terms under the total order, returning
// <0, 0, >0. Numbers compare numerically when both sides are Numbers;
// everything else (including mixed Number/non-Number comparisons, which
// ASP-Core-2 permits for = and !=) falls back to the total term order.
func compareTerms(a, b Term) (int, error) {
	if an, ok := a.(*Number); ok {
		if bn, ok := b.(*Number); ok {
			switch {
			case an.Value < bn.Value:
				return -1, nil
			case an.Value > bn.Value:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	switch {
	case a.String() == b.String():
		return 0, nil
	case a.Precedes(b):
		return -1, nil
	default:
		return 1, nil
	}
}

// LiteralCollection is an ordered, possibly heterogeneous tuple of
// literals (a rule body, or the flattened element body of an aggregate).
type LiteralCollection []Literal

func (lc LiteralCollection) Ground() bool {
	for _, l := range lc {
		if !l.Ground() {
			return false
		}
	}
	return true
}

func (lc LiteralCollection) Vars() VarSet {
	vars := make(VarSet)
	for _, l := range lc {
		vars = vars.Union(l.Vars())
	}
	return vars
}

func (lc LiteralCollection) Substitute(subst Substitution) LiteralCollection {
	out := make(LiteralCollection, len(lc))
	for i, l := range lc {
		out[i] = l.Substitute(subst)
	}
	return out
}

func (lc LiteralCollection) String() string {
	parts := make([]string, len(lc))
	for i, l := range lc {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// PredLiterals filters the collection down to its PredLiteral members, the
// only ones the dependency graph (internal/depgraph) and the instantiation
// engine's literal selection treat as ordinary derived-predicate occurrences.
func (lc LiteralCollection) PredLiterals() []*PredLiteral {
	var out []*PredLiteral
	for _, l := range lc {
		if p, ok := l.(*PredLiteral); ok {
			out = append(out, p)
		}
	}
	return out
}
