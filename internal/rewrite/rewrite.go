// Package rewrite synthesizes ε (base) and η (element)
// rules for every aggregate and choice construct in a program, so that the
// instantiation engine (internal/ground) never has to ground an aggregate
// or choice directly — only ordinary rule bodies and the placeholders that
// stand in for them.
package rewrite

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"aspgrounder/internal/ast"
	"aspgrounder/internal/debugmode"
	aerrors "aspgrounder/internal/errors"
)

// AggrEntry records everything the propagator needs for one rewritten
// aggregate: the original literal (for assembly), the placeholder that now
// occurs in the owning rule's body, and the synthesized base/element
// rules (the aggr_map entry for its ref).
type AggrEntry struct {
	RefID       int
	Orig        *ast.AggrLiteral
	Placeholder *ast.AggrPlaceholder
	Base        *ast.AggrBaseRule
	Elems       []*ast.AggrElemRule
	GlobalVars  ast.TermTuple
}

// ChoiceEntry is AggrEntry's counterpart for a rewritten choice head. Body
// is the owning rule's own (non-element) literals B, carried through so
// the propagator's assembly can reconstruct the ground ChoiceRule: head = Choice(ground
// elements, ground guards), body = B.Substitute(θ).
type ChoiceEntry struct {
	RefID       int
	Orig        *ast.Choice
	Placeholder *ast.ChoicePlaceholder
	Base        *ast.ChoiceBaseRule
	Elems       []*ast.ChoiceElemRule
	GlobalVars  ast.TermTuple
	Body        ast.LiteralCollection
}

// Result is the rewritten program plus the maps the propagator needs to assemble
// ground aggregates/choices back into their owning rules.
type Result struct {
	Statements []ast.Statement
	AggrMap    map[int]*AggrEntry
	ChoiceMap  map[int]*ChoiceEntry
}

// Rewrite rewrites every aggregate and choice in stmts. The ref_id counter is
// scoped to this one call (one rewrite pass over one program), never
// process-global.
func Rewrite(arena *ast.Arena, stmts []ast.Statement) (*Result, error) {
	res := &Result{AggrMap: map[int]*AggrEntry{}, ChoiceMap: map[int]*ChoiceEntry{}}
	nextRef := 0

	for _, s := range stmts {
		if cr, ok := s.(*ast.ChoiceRule); ok {
			entry, err := rewriteChoice(arena, cr, &nextRef)
			if err != nil {
				return nil, err
			}
			res.ChoiceMap[entry.RefID] = entry
			res.Statements = append(res.Statements, entry.Base)
			for _, er := range entry.Elems {
				res.Statements = append(res.Statements, er)
			}
			continue
		}

		rewritten, aux, err := rewriteAggregatesInBody(arena, s, &nextRef, res.AggrMap)
		if err != nil {
			return nil, err
		}
		res.Statements = append(res.Statements, rewritten)
		res.Statements = append(res.Statements, aux...)
	}

	return res, nil
}

func containsAggr(body ast.LiteralCollection) bool {
	for _, l := range body {
		if _, ok := l.(*ast.AggrLiteral); ok {
			return true
		}
	}
	return false
}

// nonAggrLiterals is B: every body literal that isn't itself an aggregate,
// in original order, shared by every aggregate rewritten out of the same
// rule.
func nonAggrLiterals(body ast.LiteralCollection) ast.LiteralCollection {
	var out ast.LiteralCollection
	for _, l := range body {
		if _, ok := l.(*ast.AggrLiteral); !ok {
			out = append(out, l)
		}
	}
	return out
}

func rewriteAggregatesInBody(arena *ast.Arena, s ast.Statement, nextRef *int, aggrMap map[int]*AggrEntry) (ast.Statement, []ast.Statement, error) {
	body := s.Body()
	if !containsAggr(body) {
		return s, nil, nil
	}

	global := ast.GlobalVars(s)
	globalVars := sortedTuple(global)
	others := nonAggrLiterals(body)

	var aux []ast.Statement
	newBody := make(ast.LiteralCollection, 0, len(body))

	for _, l := range body {
		a, ok := l.(*ast.AggrLiteral)
		if !ok {
			newBody = append(newBody, l)
			continue
		}

		entry, err := rewriteAggregate(arena, a, globalVars, others, nextRef)
		if err != nil {
			return nil, nil, err
		}
		aggrMap[entry.RefID] = entry
		aux = append(aux, entry.Base)
		for _, er := range entry.Elems {
			aux = append(aux, er)
		}
		ph := *entry.Placeholder
		ph.Negated = a.Naf()
		newBody = append(newBody, &ph)
	}

	return withBody(s, newBody), aux, nil
}

// rewriteAggregate synthesizes the base rule, one element rule per
// element, and the placeholder replacing the aggregate in the owning
// rule's body.
func rewriteAggregate(arena *ast.Arena, a *ast.AggrLiteral, globalVars ast.TermTuple, others ast.LiteralCollection, nextRef *int) (*AggrEntry, error) {
	if err := validateGuards(a.LGuard, a.RGuard); err != nil {
		return nil, err
	}

	refID := *nextRef
	*nextRef++

	// the ε/η heads are always positive; the NAF of the original aggregate
	// lives only on the placeholder copy put into the owning rule's body.
	ph := ast.NewAggrPlaceholder(arena.Derive(a.ID()), refID, nil, nil, globalVars, false)

	base := a.Func.Base(arena, a.ID())
	var guardLiterals ast.LiteralCollection
	if a.LGuard != nil {
		guardLiterals = append(guardLiterals, ast.NewBuiltinLiteral(arena.Derive(a.ID()), a.LGuard.Op, a.LGuard.Bound, base, false))
	}
	if a.RGuard != nil {
		guardLiterals = append(guardLiterals, ast.NewBuiltinLiteral(arena.Derive(a.ID()), a.RGuard.Op, base, a.RGuard.Bound, false))
	}
	baseRule := ast.NewAggrBaseRule(arena.Derive(a.ID()), ph, append(guardLiterals, others...))

	global := ast.NewVarSet(tupleVars(globalVars)...)
	entry := &AggrEntry{RefID: refID, Orig: a, Placeholder: ph, Base: baseRule, GlobalVars: globalVars}

	for i, elem := range a.Elements {
		i := i
		localVars := ast.LocalVars(elem.Vars(), global)
		localTuple := varsToTuple(localVars)
		elemPh := ast.NewAggrPlaceholder(arena.Derive(elem.ID()), refID, &i, localTuple, globalVars, false)
		body := append(append(ast.LiteralCollection{}, elem.Literals...), others...)
		entry.Elems = append(entry.Elems, ast.NewAggrElemRule(arena.Derive(elem.ID()), elemPh, elem, body))
	}

	if debugmode.Enabled() {
		logrus.WithField("ref", refID).WithField("elements", len(entry.Elems)).
			Debugf("rewrote aggregate %s", a)
	}

	return entry, nil
}

func rewriteChoice(arena *ast.Arena, r *ast.ChoiceRule, nextRef *int) (*ChoiceEntry, error) {
	c := r.Choice()
	if err := validateGuards(c.LGuard, c.RGuard); err != nil {
		return nil, err
	}

	refID := *nextRef
	*nextRef++

	globalVars := sortedTuple(ast.GlobalVars(r))
	global := ast.NewVarSet(tupleVars(globalVars)...)

	ph := ast.NewChoicePlaceholder(arena.Derive(r.ID()), refID, nil, nil, globalVars)
	baseRule := ast.NewChoiceBaseRule(arena.Derive(r.ID()), ph, r.Body())

	entry := &ChoiceEntry{RefID: refID, Orig: c, Placeholder: ph, Base: baseRule, GlobalVars: globalVars, Body: r.Body()}

	for i, elem := range c.Elements {
		i := i
		localVars := ast.LocalVars(elem.Vars(), global)
		localTuple := varsToTuple(localVars)
		elemPh := ast.NewChoicePlaceholder(arena.Derive(elem.ID()), refID, &i, localTuple, globalVars)
		body := append(append(ast.LiteralCollection{}, elem.Literals...), r.Body()...)
		entry.Elems = append(entry.Elems, ast.NewChoiceElemRule(arena.Derive(elem.ID()), elemPh, elem, body))
	}

	if debugmode.Enabled() {
		logrus.WithField("ref", refID).WithField("elements", len(entry.Elems)).
			Debugf("rewrote choice %s", c)
	}

	return entry, nil
}

// validateGuards rejects a redundant guard specification: the same guard
// (same operator and the same bound node) given as both the left and the
// right guard. A missing guard is simply nil and needs no check. In debug
// mode it additionally asserts guard sidedness — a left guard carried in
// the right slot means the parser or a programmatic caller built the
// literal wrong.
func validateGuards(lg, rg *ast.Guard) error {
	if lg != nil && rg != nil && lg.Op == rg.Op && lg.Bound == rg.Bound {
		return aerrors.New(aerrors.InvalidRewrite, ast.Position{}, "redundant duplicate guard specification")
	}
	if debugmode.Enabled() {
		if lg != nil && lg.Right {
			return aerrors.New(aerrors.InvalidRewrite, ast.Position{}, "left guard marked right-sided")
		}
		if rg != nil && !rg.Right {
			return aerrors.New(aerrors.InvalidRewrite, ast.Position{}, "right guard marked left-sided")
		}
	}
	return nil
}

func withBody(s ast.Statement, body ast.LiteralCollection) ast.Statement {
	switch r := s.(type) {
	case *ast.NormalRule:
		return ast.NewNormalRule(r.ID(), r.Atom, body)
	case *ast.DisjunctiveRule:
		return ast.NewDisjunctiveRule(r.ID(), r.Atoms, body)
	case *ast.Constraint:
		return ast.NewConstraint(r.ID(), body)
	case *ast.WeakConstraint:
		return ast.NewWeakConstraint(r.ID(), body, r.Weight)
	default:
		panic(fmt.Sprintf("rewrite: unsupported statement type %T for aggregate rewriting", s))
	}
}

func sortedTuple(vars ast.VarSet) ast.TermTuple {
	sorted := vars.Sorted()
	out := make(ast.TermTuple, len(sorted))
	for i, v := range sorted {
		out[i] = v
	}
	return out
}

func varsToTuple(vars []*ast.Variable) ast.TermTuple {
	out := make(ast.TermTuple, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

func tupleVars(t ast.TermTuple) []*ast.Variable {
	var out []*ast.Variable
	for _, term := range t {
		if v, ok := term.(*ast.Variable); ok {
			out = append(out, v)
		}
	}
	return out
}
