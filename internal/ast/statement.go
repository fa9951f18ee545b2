package ast

import (
	"fmt"
	"strings"
)

// Statement is the marker interface implemented by every rule/fact variant.
type Statement interface {
	isStatement()
	fmt.Stringer
	ID() NodeID
	Ground() bool
	Vars() VarSet
	// Head returns the statement's head literals (empty for a Constraint).
	Head() LiteralCollection
	// Body returns the statement's body literals (empty for a Fact).
	Body() LiteralCollection
	Substitute(subst Substitution) Statement
}

// Fact is a fact: a head with an empty body.
type Fact struct {
	id   NodeID
	Atom *PredLiteral
}

func NewFact(id NodeID, atom *PredLiteral) *Fact { return &Fact{id: id, Atom: atom} }

func (*Fact) isStatement()       {}
func (f *Fact) ID() NodeID       { return f.id }
func (f *Fact) Ground() bool     { return f.Atom.Ground() }
func (f *Fact) Vars() VarSet     { return f.Atom.Vars() }
func (f *Fact) Head() LiteralCollection { return LiteralCollection{f.Atom} }
func (f *Fact) Body() LiteralCollection { return nil }
func (f *Fact) String() string   { return f.Atom.String() + "." }

func (f *Fact) Substitute(subst Substitution) Statement {
	return &Fact{id: f.id, Atom: f.Atom.Substitute(subst).(*PredLiteral)}
}

// NormalRule is a rule with a single head atom: head :- body.
type NormalRule struct {
	id      NodeID
	Atom    *PredLiteral
	Literals LiteralCollection
}

func NewNormalRule(id NodeID, atom *PredLiteral, body LiteralCollection) *NormalRule {
	return &NormalRule{id: id, Atom: atom, Literals: body}
}

func (*NormalRule) isStatement() {}
func (r *NormalRule) ID() NodeID { return r.id }
func (r *NormalRule) Ground() bool { return r.Atom.Ground() && r.Literals.Ground() }
func (r *NormalRule) Vars() VarSet { return r.Atom.Vars().Union(r.Literals.Vars()) }
func (r *NormalRule) Head() LiteralCollection { return LiteralCollection{r.Atom} }
func (r *NormalRule) Body() LiteralCollection { return r.Literals }

func (r *NormalRule) String() string {
	if len(r.Literals) == 0 {
		return r.Atom.String() + "."
	}
	return fmt.Sprintf("%s :- %s.", r.Atom, r.Literals)
}

func (r *NormalRule) Substitute(subst Substitution) Statement {
	return &NormalRule{id: r.id, Atom: r.Atom.Substitute(subst).(*PredLiteral), Literals: r.Literals.Substitute(subst)}
}

// DisjunctiveRule is a rule with multiple, disjoined head atoms.
type DisjunctiveRule struct {
	id       NodeID
	Atoms    []*PredLiteral
	Literals LiteralCollection
}

func NewDisjunctiveRule(id NodeID, atoms []*PredLiteral, body LiteralCollection) *DisjunctiveRule {
	return &DisjunctiveRule{id: id, Atoms: atoms, Literals: body}
}

func (*DisjunctiveRule) isStatement() {}
func (r *DisjunctiveRule) ID() NodeID { return r.id }

func (r *DisjunctiveRule) Ground() bool {
	for _, a := range r.Atoms {
		if !a.Ground() {
			return false
		}
	}
	return r.Literals.Ground()
}

func (r *DisjunctiveRule) Vars() VarSet {
	vars := make(VarSet)
	for _, a := range r.Atoms {
		vars = vars.Union(a.Vars())
	}
	return vars.Union(r.Literals.Vars())
}

func (r *DisjunctiveRule) Head() LiteralCollection {
	out := make(LiteralCollection, len(r.Atoms))
	for i, a := range r.Atoms {
		out[i] = a
	}
	return out
}

func (r *DisjunctiveRule) Body() LiteralCollection { return r.Literals }

func (r *DisjunctiveRule) String() string {
	parts := make([]string, len(r.Atoms))
	for i, a := range r.Atoms {
		parts[i] = a.String()
	}
	head := strings.Join(parts, " | ")
	if len(r.Literals) == 0 {
		return head + "."
	}
	return fmt.Sprintf("%s :- %s.", head, r.Literals)
}

func (r *DisjunctiveRule) Substitute(subst Substitution) Statement {
	atoms := make([]*PredLiteral, len(r.Atoms))
	for i, a := range r.Atoms {
		atoms[i] = a.Substitute(subst).(*PredLiteral)
	}
	return &DisjunctiveRule{id: r.id, Atoms: atoms, Literals: r.Literals.Substitute(subst)}
}

// ChoiceRule is a rule with a Choice head: u1 R1 { ... } R2 u2 :- body.
type ChoiceRule struct {
	id       NodeID
	Head_    *Choice
	Literals LiteralCollection
}

func NewChoiceRule(id NodeID, head *Choice, body LiteralCollection) *ChoiceRule {
	return &ChoiceRule{id: id, Head_: head, Literals: body}
}

func (*ChoiceRule) isStatement() {}
func (r *ChoiceRule) ID() NodeID { return r.id }
func (r *ChoiceRule) Ground() bool { return r.Head_.Ground() && r.Literals.Ground() }
func (r *ChoiceRule) Vars() VarSet { return r.Head_.Vars().Union(r.Literals.Vars()) }
func (r *ChoiceRule) Choice() *Choice { return r.Head_ }

// Head returns the choice's element atoms, treated as the rule's candidate
// head atoms by the dependency graph (each may or may not be derived).
func (r *ChoiceRule) Head() LiteralCollection {
	out := make(LiteralCollection, len(r.Head_.Elements))
	for i, e := range r.Head_.Elements {
		out[i] = e.Atom
	}
	return out
}

func (r *ChoiceRule) Body() LiteralCollection { return r.Literals }

func (r *ChoiceRule) String() string {
	if len(r.Literals) == 0 {
		return r.Head_.String() + "."
	}
	return fmt.Sprintf("%s :- %s.", r.Head_, r.Literals)
}

func (r *ChoiceRule) Substitute(subst Substitution) Statement {
	return &ChoiceRule{id: r.id, Head_: r.Head_.Substitute(subst), Literals: r.Literals.Substitute(subst)}
}

// Constraint is an integrity constraint: :- body. An empty body is legal
// and denotes a trivially-violated constraint (":- ." — see DESIGN.md's
// resolution of the empty-constraint open question).
type Constraint struct {
	id       NodeID
	Literals LiteralCollection
}

func NewConstraint(id NodeID, body LiteralCollection) *Constraint {
	return &Constraint{id: id, Literals: body}
}

func (*Constraint) isStatement() {}
func (c *Constraint) ID() NodeID { return c.id }
func (c *Constraint) Ground() bool { return c.Literals.Ground() }
func (c *Constraint) Vars() VarSet { return c.Literals.Vars() }
func (c *Constraint) Head() LiteralCollection { return nil }
func (c *Constraint) Body() LiteralCollection { return c.Literals }

func (c *Constraint) String() string {
	if len(c.Literals) == 0 {
		return ":- ."
	}
	return fmt.Sprintf(":- %s.", c.Literals)
}

func (c *Constraint) Substitute(subst Substitution) Statement {
	return &Constraint{id: c.id, Literals: c.Literals.Substitute(subst)}
}

// WeightAtLevel is a weak-constraint weight annotation: [weight@level,t1,...]
// Terms beyond weight/level affect only uniqueness
// of minimization, not the score itself.
type WeightAtLevel struct {
	Weight Term
	Level  Term
	Terms  TermTuple
}

func (w WeightAtLevel) Ground() bool {
	return w.Weight.Ground() && w.Level.Ground() && w.Terms.Ground()
}

func (w WeightAtLevel) Vars() VarSet {
	return w.Weight.Vars().Union(w.Level.Vars()).Union(w.Terms.Vars())
}

func (w WeightAtLevel) Substitute(subst Substitution) WeightAtLevel {
	return WeightAtLevel{Weight: w.Weight.Substitute(subst), Level: w.Level.Substitute(subst), Terms: w.Terms.Substitute(subst)}
}

func (w WeightAtLevel) String() string {
	if len(w.Terms) == 0 {
		return fmt.Sprintf("%s@%s", w.Weight, w.Level)
	}
	return fmt.Sprintf("%s@%s,%s", w.Weight, w.Level, w.Terms)
}

// WeakConstraint is a weak constraint: :~ body. [weight@level,terms]
type WeakConstraint struct {
	id       NodeID
	Literals LiteralCollection
	Weight   WeightAtLevel
}

func NewWeakConstraint(id NodeID, body LiteralCollection, w WeightAtLevel) *WeakConstraint {
	return &WeakConstraint{id: id, Literals: body, Weight: w}
}

func (*WeakConstraint) isStatement() {}
func (c *WeakConstraint) ID() NodeID { return c.id }
func (c *WeakConstraint) Ground() bool { return c.Literals.Ground() && c.Weight.Ground() }
func (c *WeakConstraint) Vars() VarSet { return c.Literals.Vars().Union(c.Weight.Vars()) }
func (c *WeakConstraint) Head() LiteralCollection { return nil }
func (c *WeakConstraint) Body() LiteralCollection { return c.Literals }

func (c *WeakConstraint) String() string {
	if len(c.Literals) == 0 {
		return fmt.Sprintf(":~ . [%s]", c.Weight)
	}
	return fmt.Sprintf(":~ %s. [%s]", c.Literals, c.Weight)
}

func (c *WeakConstraint) Substitute(subst Substitution) Statement {
	return &WeakConstraint{id: c.id, Literals: c.Literals.Substitute(subst), Weight: c.Weight.Substitute(subst)}
}

// AggrBaseRule is the synthesized epsilon rule establishing an aggregate
// placeholder's base (empty-element-set) case.
type AggrBaseRule struct {
	id         NodeID
	Placeholder *AggrPlaceholder
	Literals   LiteralCollection
}

func NewAggrBaseRule(id NodeID, ph *AggrPlaceholder, body LiteralCollection) *AggrBaseRule {
	return &AggrBaseRule{id: id, Placeholder: ph, Literals: body}
}

func (*AggrBaseRule) isStatement() {}
func (r *AggrBaseRule) ID() NodeID { return r.id }
func (r *AggrBaseRule) Ground() bool { return r.Placeholder.Ground() && r.Literals.Ground() }
func (r *AggrBaseRule) Vars() VarSet { return r.Placeholder.Vars().Union(r.Literals.Vars()) }
func (r *AggrBaseRule) Head() LiteralCollection { return LiteralCollection{r.Placeholder} }
func (r *AggrBaseRule) Body() LiteralCollection { return r.Literals }

func (r *AggrBaseRule) String() string {
	return fmt.Sprintf("%s :- %s.", r.Placeholder, r.Literals)
}

func (r *AggrBaseRule) Substitute(subst Substitution) Statement {
	return &AggrBaseRule{id: r.id, Placeholder: r.Placeholder.Substitute(subst).(*AggrPlaceholder), Literals: r.Literals.Substitute(subst)}
}

// AggrElemRule is the synthesized eta rule instantiating one aggregate
// element into the placeholder predicate.
type AggrElemRule struct {
	id         NodeID
	Placeholder *AggrPlaceholder
	Element    *AggrElement
	Literals   LiteralCollection // placeholder's global vars + element condition
}

func NewAggrElemRule(id NodeID, ph *AggrPlaceholder, elem *AggrElement, body LiteralCollection) *AggrElemRule {
	return &AggrElemRule{id: id, Placeholder: ph, Element: elem, Literals: body}
}

func (*AggrElemRule) isStatement() {}
func (r *AggrElemRule) ID() NodeID { return r.id }
func (r *AggrElemRule) Ground() bool {
	return r.Placeholder.Ground() && r.Element.Ground() && r.Literals.Ground()
}
func (r *AggrElemRule) Vars() VarSet {
	return r.Placeholder.Vars().Union(r.Element.Vars()).Union(r.Literals.Vars())
}
func (r *AggrElemRule) Head() LiteralCollection { return LiteralCollection{r.Placeholder} }
func (r *AggrElemRule) Body() LiteralCollection { return r.Literals }

func (r *AggrElemRule) String() string {
	return fmt.Sprintf("%s :- %s.", r.Placeholder, r.Literals)
}

func (r *AggrElemRule) Substitute(subst Substitution) Statement {
	return &AggrElemRule{
		id:          r.id,
		Placeholder: r.Placeholder.Substitute(subst).(*AggrPlaceholder),
		Element:     r.Element.Substitute(subst),
		Literals:    r.Literals.Substitute(subst),
	}
}

// ChoiceBaseRule is the synthesized epsilon rule for a choice's cardinality
// placeholder, analogous to AggrBaseRule.
type ChoiceBaseRule struct {
	id         NodeID
	Placeholder *ChoicePlaceholder
	Literals   LiteralCollection
}

func NewChoiceBaseRule(id NodeID, ph *ChoicePlaceholder, body LiteralCollection) *ChoiceBaseRule {
	return &ChoiceBaseRule{id: id, Placeholder: ph, Literals: body}
}

func (*ChoiceBaseRule) isStatement() {}
func (r *ChoiceBaseRule) ID() NodeID { return r.id }
func (r *ChoiceBaseRule) Ground() bool { return r.Placeholder.Ground() && r.Literals.Ground() }
func (r *ChoiceBaseRule) Vars() VarSet { return r.Placeholder.Vars().Union(r.Literals.Vars()) }
func (r *ChoiceBaseRule) Head() LiteralCollection { return LiteralCollection{r.Placeholder} }
func (r *ChoiceBaseRule) Body() LiteralCollection { return r.Literals }

func (r *ChoiceBaseRule) String() string {
	return fmt.Sprintf("%s :- %s.", r.Placeholder, r.Literals)
}

func (r *ChoiceBaseRule) Substitute(subst Substitution) Statement {
	return &ChoiceBaseRule{id: r.id, Placeholder: r.Placeholder.Substitute(subst).(*ChoicePlaceholder), Literals: r.Literals.Substitute(subst)}
}

// ChoiceElemRule is the synthesized eta rule instantiating one choice
// element's chosen-or-not contribution into the placeholder predicate.
type ChoiceElemRule struct {
	id         NodeID
	Placeholder *ChoicePlaceholder
	Element    *ChoiceElement
	Literals   LiteralCollection
}

func NewChoiceElemRule(id NodeID, ph *ChoicePlaceholder, elem *ChoiceElement, body LiteralCollection) *ChoiceElemRule {
	return &ChoiceElemRule{id: id, Placeholder: ph, Element: elem, Literals: body}
}

func (*ChoiceElemRule) isStatement() {}
func (r *ChoiceElemRule) ID() NodeID { return r.id }
func (r *ChoiceElemRule) Ground() bool {
	return r.Placeholder.Ground() && r.Element.Ground() && r.Literals.Ground()
}
func (r *ChoiceElemRule) Vars() VarSet {
	return r.Placeholder.Vars().Union(r.Element.Vars()).Union(r.Literals.Vars())
}
// Head exposes both the placeholder and the element's own atom: the
// placeholder is what the rule textually derives, but the element atom is
// what the eventual assembled choice may make true, so dependency analysis
// and the aux fixpoint must treat the rule as a potential deriver of both.
func (r *ChoiceElemRule) Head() LiteralCollection {
	return LiteralCollection{r.Placeholder, r.Element.Atom}
}
func (r *ChoiceElemRule) Body() LiteralCollection { return r.Literals }

func (r *ChoiceElemRule) String() string {
	return fmt.Sprintf("%s :- %s.", r.Placeholder, r.Literals)
}

func (r *ChoiceElemRule) Substitute(subst Substitution) Statement {
	return &ChoiceElemRule{
		id:          r.id,
		Placeholder: r.Placeholder.Substitute(subst).(*ChoicePlaceholder),
		Element:     r.Element.Substitute(subst),
		Literals:    r.Literals.Substitute(subst),
	}
}

// OptimizeKind distinguishes minimize from maximize optimization statements.
type OptimizeKind int

const (
	Minimize OptimizeKind = iota
	Maximize
)

// OptimizeStatement is a #minimize/#maximize statement over a set of
// weighted elements, structurally identical to a weak constraint's weight
// list but without an accompanying body of its own (the elements carry
// their own condition literals).
type OptimizeStatement struct {
	id       NodeID
	Kind     OptimizeKind
	Elements []*AggrElement // Terms[0] is weight, Terms[1] is level, rest are uniqueness terms
}

func NewOptimizeStatement(id NodeID, kind OptimizeKind, elements []*AggrElement) *OptimizeStatement {
	return &OptimizeStatement{id: id, Kind: kind, Elements: elements}
}

func (*OptimizeStatement) isStatement() {}
func (o *OptimizeStatement) ID() NodeID { return o.id }

func (o *OptimizeStatement) Ground() bool {
	for _, e := range o.Elements {
		if !e.Ground() {
			return false
		}
	}
	return true
}

func (o *OptimizeStatement) Vars() VarSet {
	vars := make(VarSet)
	for _, e := range o.Elements {
		vars = vars.Union(e.Vars())
	}
	return vars
}

func (o *OptimizeStatement) Head() LiteralCollection { return nil }
func (o *OptimizeStatement) Body() LiteralCollection { return nil }

func (o *OptimizeStatement) String() string {
	kw := "#minimize"
	if o.Kind == Maximize {
		kw = "#maximize"
	}
	parts := make([]string, len(o.Elements))
	for i, e := range o.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s{%s}.", kw, strings.Join(parts, ";"))
}

func (o *OptimizeStatement) Substitute(subst Substitution) Statement {
	elems := make([]*AggrElement, len(o.Elements))
	for i, e := range o.Elements {
		elems[i] = e.Substitute(subst)
	}
	return &OptimizeStatement{id: o.id, Kind: o.Kind, Elements: elems}
}
