package ast

import (
	"fmt"
	"strings"
)

// AggrFunc is an aggregate function symbol.
type AggrFunc int

const (
	AggrCount AggrFunc = iota
	AggrSum
	AggrMin
	AggrMax
)

// Base returns the aggregate function's identity value: the
// value the aggregate would take over the empty element set.
func (f AggrFunc) Base(arena *Arena, origin NodeID) Term {
	switch f {
	case AggrCount, AggrSum:
		return NewNumber(arena.Derive(origin), 0)
	case AggrMin:
		return NewSupremum(arena.Derive(origin))
	case AggrMax:
		return NewInfimum(arena.Derive(origin))
	default:
		return NewNumber(arena.Derive(origin), 0)
	}
}

func (f AggrFunc) String() string {
	switch f {
	case AggrCount:
		return "#count"
	case AggrSum:
		return "#sum"
	case AggrMin:
		return "#min"
	case AggrMax:
		return "#max"
	default:
		return "?"
	}
}

// Guard is one bound of an aggregate or choice expression: "bound op" on
// the left (op applies bound-to-value) or "op bound" on the right
// (value-to-bound). Right reports which side this guard occupies.
type Guard struct {
	Op    RelOp
	Bound Term
	Right bool
}

func (g Guard) Substitute(subst Substitution) Guard {
	return Guard{Op: g.Op, Bound: g.Bound.Substitute(subst), Right: g.Right}
}

// AggrElement is one element of an aggregate: a term tuple (the value(s)
// aggregated over) guarded by a literal condition.
type AggrElement struct {
	id       NodeID
	Terms    TermTuple
	Literals LiteralCollection
}

func NewAggrElement(id NodeID, terms TermTuple, literals LiteralCollection) *AggrElement {
	return &AggrElement{id: id, Terms: terms, Literals: literals}
}

func (e *AggrElement) ID() NodeID   { return e.id }
func (e *AggrElement) Ground() bool { return e.Terms.Ground() && e.Literals.Ground() }
func (e *AggrElement) Vars() VarSet { return e.Terms.Vars().Union(e.Literals.Vars()) }

func (e *AggrElement) String() string {
	return fmt.Sprintf("%s:%s", e.Terms, e.Literals)
}

func (e *AggrElement) Substitute(subst Substitution) *AggrElement {
	return &AggrElement{id: e.id, Terms: e.Terms.Substitute(subst), Literals: e.Literals.Substitute(subst)}
}

// AggrLiteral is an aggregate atom: a function over a set of elements,
// bounded by up to two guards.
type AggrLiteral struct {
	id       NodeID
	Func     AggrFunc
	Elements []*AggrElement
	LGuard   *Guard
	RGuard   *Guard
	Negated  bool
}

func NewAggrLiteral(id NodeID, fn AggrFunc, elements []*AggrElement, lguard, rguard *Guard, negated bool) *AggrLiteral {
	return &AggrLiteral{id: id, Func: fn, Elements: elements, LGuard: lguard, RGuard: rguard, Negated: negated}
}

func (*AggrLiteral) isLiteral()   {}
func (l *AggrLiteral) ID() NodeID { return l.id }
func (l *AggrLiteral) Naf() bool  { return l.Negated }

func (l *AggrLiteral) Ground() bool {
	for _, e := range l.Elements {
		if !e.Ground() {
			return false
		}
	}
	return guardGround(l.LGuard) && guardGround(l.RGuard)
}

func (l *AggrLiteral) Vars() VarSet {
	vars := make(VarSet)
	for _, e := range l.Elements {
		vars = vars.Union(e.Vars())
	}
	vars = vars.Union(guardVars(l.LGuard)).Union(guardVars(l.RGuard))
	return vars
}

func (l *AggrLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	s := fmt.Sprintf("%s{%s}", l.Func, strings.Join(parts, ";"))
	if l.LGuard != nil {
		s = fmt.Sprintf("%s%s%s", l.LGuard.Bound, l.LGuard.Op, s)
	}
	if l.RGuard != nil {
		s = fmt.Sprintf("%s%s%s", s, l.RGuard.Op, l.RGuard.Bound)
	}
	if l.Negated {
		s = "not " + s
	}
	return s
}

func (l *AggrLiteral) Substitute(subst Substitution) Literal {
	elems := make([]*AggrElement, len(l.Elements))
	for i, e := range l.Elements {
		elems[i] = e.Substitute(subst)
	}
	out := &AggrLiteral{id: l.id, Func: l.Func, Elements: elems, Negated: l.Negated}
	if l.LGuard != nil {
		g := l.LGuard.Substitute(subst)
		out.LGuard = &g
	}
	if l.RGuard != nil {
		g := l.RGuard.Substitute(subst)
		out.RGuard = &g
	}
	return out
}

// AggrPlaceholder stands in for an AggrLiteral inside a rewritten rule body
// (when ElementID is nil, referencing the synthesized base rule's derived
// atom for ref_id), or is the synthesized head of one AggrElemRule (when
// ElementID is set). Terms is always LocalVars++GlobalVars, the
// fixed order ε/η rule identity depends on; the synthesized predicate name
// folds RefID (and ElementID, for an element head) into a string so that
// distinct refs and elements never collide as predicates in the
// dependency graph or the instantiation engine's match-by-name lookup.
type AggrPlaceholder struct {
	id         NodeID
	RefID      int
	ElementID  *int
	LocalVars  TermTuple
	GlobalVars TermTuple
	Negated    bool
}

func NewAggrPlaceholder(id NodeID, refID int, elementID *int, local, global TermTuple, negated bool) *AggrPlaceholder {
	return &AggrPlaceholder{id: id, RefID: refID, ElementID: elementID, LocalVars: local, GlobalVars: global, Negated: negated}
}

func (*AggrPlaceholder) isLiteral()   {}
func (l *AggrPlaceholder) ID() NodeID { return l.id }
func (l *AggrPlaceholder) Naf() bool  { return l.Negated }

// Terms is the ε/η atom's full argument tuple: local_vars ++ global_vars.
func (l *AggrPlaceholder) Terms() TermTuple {
	out := make(TermTuple, 0, len(l.LocalVars)+len(l.GlobalVars))
	out = append(out, l.LocalVars...)
	out = append(out, l.GlobalVars...)
	return out
}

func (l *AggrPlaceholder) Ground() bool { return l.Terms().Ground() }
func (l *AggrPlaceholder) Vars() VarSet { return l.Terms().Vars() }

// Name is the synthesized predicate name this placeholder matches against:
// "_aggr_base_<ref>" for a base-rule/body placeholder, "_aggr_elem_<ref>_<i>"
// for element i's head.
func (l *AggrPlaceholder) Name() string {
	if l.ElementID == nil {
		return fmt.Sprintf("_aggr_base_%d", l.RefID)
	}
	return fmt.Sprintf("_aggr_elem_%d_%d", l.RefID, *l.ElementID)
}

func (l *AggrPlaceholder) String() string {
	s := fmt.Sprintf("%s(%s)", l.Name(), l.Terms())
	if l.Negated {
		s = "not " + s
	}
	return s
}

func (l *AggrPlaceholder) Substitute(subst Substitution) Literal {
	return &AggrPlaceholder{
		id: l.id, RefID: l.RefID, ElementID: l.ElementID,
		LocalVars: l.LocalVars.Substitute(subst), GlobalVars: l.GlobalVars.Substitute(subst),
		Negated: l.Negated,
	}
}

// AsPredLiteral views the placeholder as an ordinary predicate literal for
// instantiation purposes, since once rewritten it is matched against the
// epsilon/eta rule's derived facts exactly like any other predicate.
func (l *AggrPlaceholder) AsPredLiteral() *PredLiteral {
	return NewPredLiteral(l.id, l.Name(), l.Terms(), l.Negated, false)
}

func guardGround(g *Guard) bool {
	return g == nil || g.Bound.Ground()
}

// ChoiceElement is one element of a choice head: an atom optionally
// conditioned on a body of literals.
type ChoiceElement struct {
	id       NodeID
	Atom     *PredLiteral
	Literals LiteralCollection
}

func NewChoiceElement(id NodeID, atom *PredLiteral, literals LiteralCollection) *ChoiceElement {
	return &ChoiceElement{id: id, Atom: atom, Literals: literals}
}

func (e *ChoiceElement) ID() NodeID   { return e.id }
func (e *ChoiceElement) Ground() bool { return e.Atom.Ground() && e.Literals.Ground() }
func (e *ChoiceElement) Vars() VarSet { return e.Atom.Vars().Union(e.Literals.Vars()) }

func (e *ChoiceElement) String() string {
	if len(e.Literals) == 0 {
		return e.Atom.String()
	}
	return fmt.Sprintf("%s:%s", e.Atom, e.Literals)
}

func (e *ChoiceElement) Substitute(subst Substitution) *ChoiceElement {
	return &ChoiceElement{id: e.id, Atom: e.Atom.Substitute(subst).(*PredLiteral), Literals: e.Literals.Substitute(subst)}
}

// Choice is a choice head: a set of ChoiceElements, any subset of which an
// answer set may include, optionally bounded in cardinality by up to two
// guards (the guards bound the *count* of chosen elements,
// not an aggregated value).
type Choice struct {
	id       NodeID
	Elements []*ChoiceElement
	LGuard   *Guard
	RGuard   *Guard
}

func NewChoice(id NodeID, elements []*ChoiceElement, lguard, rguard *Guard) *Choice {
	return &Choice{id: id, Elements: elements, LGuard: lguard, RGuard: rguard}
}

func (c *Choice) ID() NodeID { return c.id }

func (c *Choice) Ground() bool {
	for _, e := range c.Elements {
		if !e.Ground() {
			return false
		}
	}
	return guardGround(c.LGuard) && guardGround(c.RGuard)
}

func (c *Choice) Vars() VarSet {
	vars := make(VarSet)
	for _, e := range c.Elements {
		vars = vars.Union(e.Vars())
	}
	return vars.Union(guardVars(c.LGuard)).Union(guardVars(c.RGuard))
}

func (c *Choice) String() string {
	parts := make([]string, len(c.Elements))
	for i, e := range c.Elements {
		parts[i] = e.String()
	}
	s := fmt.Sprintf("{%s}", strings.Join(parts, ";"))
	if c.LGuard != nil {
		s = fmt.Sprintf("%s%s%s", c.LGuard.Bound, c.LGuard.Op, s)
	}
	if c.RGuard != nil {
		s = fmt.Sprintf("%s%s%s", s, c.RGuard.Op, c.RGuard.Bound)
	}
	return s
}

func (c *Choice) Substitute(subst Substitution) *Choice {
	elems := make([]*ChoiceElement, len(c.Elements))
	for i, e := range c.Elements {
		elems[i] = e.Substitute(subst)
	}
	out := &Choice{id: c.id, Elements: elems}
	if c.LGuard != nil {
		g := c.LGuard.Substitute(subst)
		out.LGuard = &g
	}
	if c.RGuard != nil {
		g := c.RGuard.Substitute(subst)
		out.RGuard = &g
	}
	return out
}

// ChoicePlaceholder stands in for a Choice's cardinality check, analogous
// to AggrPlaceholder: ElementID nil names the base rule's head, set names
// element i's head.
type ChoicePlaceholder struct {
	id         NodeID
	RefID      int
	ElementID  *int
	LocalVars  TermTuple
	GlobalVars TermTuple
}

func NewChoicePlaceholder(id NodeID, refID int, elementID *int, local, global TermTuple) *ChoicePlaceholder {
	return &ChoicePlaceholder{id: id, RefID: refID, ElementID: elementID, LocalVars: local, GlobalVars: global}
}

func (*ChoicePlaceholder) isLiteral()   {}
func (l *ChoicePlaceholder) ID() NodeID { return l.id }
func (l *ChoicePlaceholder) Naf() bool  { return false }

func (l *ChoicePlaceholder) Terms() TermTuple {
	out := make(TermTuple, 0, len(l.LocalVars)+len(l.GlobalVars))
	out = append(out, l.LocalVars...)
	out = append(out, l.GlobalVars...)
	return out
}

func (l *ChoicePlaceholder) Ground() bool { return l.Terms().Ground() }
func (l *ChoicePlaceholder) Vars() VarSet { return l.Terms().Vars() }

func (l *ChoicePlaceholder) Name() string {
	if l.ElementID == nil {
		return fmt.Sprintf("_choice_base_%d", l.RefID)
	}
	return fmt.Sprintf("_choice_elem_%d_%d", l.RefID, *l.ElementID)
}

func (l *ChoicePlaceholder) String() string {
	return fmt.Sprintf("%s(%s)", l.Name(), l.Terms())
}

func (l *ChoicePlaceholder) Substitute(subst Substitution) Literal {
	return &ChoicePlaceholder{
		id: l.id, RefID: l.RefID, ElementID: l.ElementID,
		LocalVars: l.LocalVars.Substitute(subst), GlobalVars: l.GlobalVars.Substitute(subst),
	}
}

func (l *ChoicePlaceholder) AsPredLiteral() *PredLiteral {
	return NewPredLiteral(l.id, l.Name(), l.Terms(), false, false)
}
