package parser

import (
	"regexp"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"aspgrounder/grammar"
	"aspgrounder/internal/ast"
	"aspgrounder/internal/debugmode"
	aerrors "aspgrounder/internal/errors"
)

// symbolicName is the shape every predicate and symbolic-constant name must
// have. The lexer already enforces it for tokens it produces, so this check
// only fires on programmatically-built trees; it runs in debug mode only.
var symbolicName = regexp.MustCompile(`^[a-z][a-zA-Z0-9_]*$`)

// converter walks the raw grammar tree statement by statement, allocating
// arena node ids stamped with the enclosing statement's source position.
type converter struct {
	arena *ast.Arena
	pos   ast.Position
}

func convert(name string, tree *grammar.Program) (*ast.Program, error) {
	c := &converter{arena: ast.NewArena()}
	stmts := make([]ast.Statement, 0, len(tree.Statements))
	for _, s := range tree.Statements {
		c.pos = position(s.Pos)
		stmt, err := c.statement(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	program := ast.NewProgram(name, stmts, c.arena)
	if tree.Query != nil {
		atom, err := c.atom(tree.Query.Atom, false)
		if err != nil {
			return nil, err
		}
		program.Query = &ast.Query{Atom: atom}
	}
	return program, nil
}

func position(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func (c *converter) id() ast.NodeID { return c.arena.Alloc(c.pos) }

func (c *converter) statement(s *grammar.Statement) (ast.Statement, error) {
	switch {
	case s.Constraint != nil:
		body, err := c.literals(s.Constraint.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewConstraint(c.id(), body), nil

	case s.WeakConstr != nil:
		body, err := c.literals(s.WeakConstr.Body)
		if err != nil {
			return nil, err
		}
		weight, err := c.weightAtLevel(s.WeakConstr.Weight)
		if err != nil {
			return nil, err
		}
		return ast.NewWeakConstraint(c.id(), body, weight), nil

	case s.Optimize != nil:
		kind := ast.Minimize
		if s.Optimize.Kind == "maximize" {
			kind = ast.Maximize
		}
		elems, err := c.aggrElements(s.Optimize.Elements)
		if err != nil {
			return nil, err
		}
		return ast.NewOptimizeStatement(c.id(), kind, elems), nil

	case s.Rule != nil:
		return c.rule(s.Rule)

	default:
		return nil, aerrors.New(aerrors.ParseError, c.pos, "empty statement")
	}
}

func (c *converter) weightAtLevel(w *grammar.WeightAtLevel) (ast.WeightAtLevel, error) {
	weight, err := c.term(w.Weight)
	if err != nil {
		return ast.WeightAtLevel{}, err
	}
	// a missing "@level" defaults to level 0, per the ASP-Core-2 standard.
	var level ast.Term = ast.NewNumber(c.id(), 0)
	if w.Level != nil {
		if level, err = c.term(w.Level); err != nil {
			return ast.WeightAtLevel{}, err
		}
	}
	terms, err := c.terms(w.Terms)
	if err != nil {
		return ast.WeightAtLevel{}, err
	}
	return ast.WeightAtLevel{Weight: weight, Level: level, Terms: terms}, nil
}

func (c *converter) rule(r *grammar.Rule) (ast.Statement, error) {
	body, err := c.literals(r.Body)
	if err != nil {
		return nil, err
	}

	if r.Head.Choice != nil {
		choice, err := c.choice(r.Head.Choice)
		if err != nil {
			return nil, err
		}
		return ast.NewChoiceRule(c.id(), choice, body), nil
	}

	atoms := make([]*ast.PredLiteral, len(r.Head.Atoms))
	for i, a := range r.Head.Atoms {
		if atoms[i], err = c.atom(a, false); err != nil {
			return nil, err
		}
	}
	switch {
	case len(atoms) == 1 && len(body) == 0:
		return ast.NewFact(c.id(), atoms[0]), nil
	case len(atoms) == 1:
		return ast.NewNormalRule(c.id(), atoms[0], body), nil
	default:
		return ast.NewDisjunctiveRule(c.id(), atoms, body), nil
	}
}

func (c *converter) choice(ch *grammar.ChoiceHead) (*ast.Choice, error) {
	lg, err := c.leftGuard(ch.LGuard)
	if err != nil {
		return nil, err
	}
	rg, err := c.rightGuard(ch.RGuard)
	if err != nil {
		return nil, err
	}
	elems := make([]*ast.ChoiceElement, len(ch.Elements))
	for i, e := range ch.Elements {
		atom, err := c.atom(e.Atom, false)
		if err != nil {
			return nil, err
		}
		body, err := c.literals(e.Body)
		if err != nil {
			return nil, err
		}
		elems[i] = ast.NewChoiceElement(c.id(), atom, body)
	}
	return ast.NewChoice(c.id(), elems, lg, rg), nil
}

func (c *converter) literals(ls []*grammar.Literal) (ast.LiteralCollection, error) {
	if len(ls) == 0 {
		return nil, nil
	}
	out := make(ast.LiteralCollection, len(ls))
	for i, l := range ls {
		lit, err := c.literal(l)
		if err != nil {
			return nil, err
		}
		out[i] = lit
	}
	return out, nil
}

func (c *converter) literal(l *grammar.Literal) (ast.Literal, error) {
	switch {
	case l.Aggr != nil:
		return c.aggr(l.Aggr, l.Naf)
	case l.Builtin != nil:
		lhs, err := c.term(l.Builtin.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := c.term(l.Builtin.Right)
		if err != nil {
			return nil, err
		}
		return ast.NewBuiltinLiteral(c.id(), op2rel[l.Builtin.Op], lhs, rhs, l.Naf), nil
	case l.Atom != nil:
		return c.atom(l.Atom, l.Naf)
	default:
		return nil, aerrors.New(aerrors.ParseError, c.pos, "empty literal")
	}
}

func (c *converter) atom(a *grammar.Atom, naf bool) (*ast.PredLiteral, error) {
	if debugmode.Enabled() && !symbolicName.MatchString(a.Pred) {
		return nil, aerrors.New(aerrors.ParseError, c.pos, "invalid predicate name %q", a.Pred)
	}
	args, err := c.terms(a.Args)
	if err != nil {
		return nil, err
	}
	return ast.NewPredLiteral(c.id(), a.Pred, args, naf, a.Neg), nil
}

func (c *converter) aggr(a *grammar.AggrAtom, naf bool) (ast.Literal, error) {
	lg, err := c.leftGuard(a.LGuard)
	if err != nil {
		return nil, err
	}
	rg, err := c.rightGuard(a.RGuard)
	if err != nil {
		return nil, err
	}
	elems, err := c.aggrElements(a.Elements)
	if err != nil {
		return nil, err
	}
	return ast.NewAggrLiteral(c.id(), op2aggr[a.Func], elems, lg, rg, naf), nil
}

func (c *converter) aggrElements(es []*grammar.AggrElemG) ([]*ast.AggrElement, error) {
	out := make([]*ast.AggrElement, len(es))
	for i, e := range es {
		terms, err := c.terms(e.Terms)
		if err != nil {
			return nil, err
		}
		body, err := c.literals(e.Body)
		if err != nil {
			return nil, err
		}
		out[i] = ast.NewAggrElement(c.id(), terms, body)
	}
	return out, nil
}

func (c *converter) leftGuard(g *grammar.LeftGuard) (*ast.Guard, error) {
	if g == nil {
		return nil, nil
	}
	bound, err := c.term(g.Bound)
	if err != nil {
		return nil, err
	}
	return &ast.Guard{Op: op2rel[g.Op], Bound: bound, Right: false}, nil
}

func (c *converter) rightGuard(g *grammar.RightGuard) (*ast.Guard, error) {
	if g == nil {
		return nil, nil
	}
	bound, err := c.term(g.Bound)
	if err != nil {
		return nil, err
	}
	return &ast.Guard{Op: op2rel[g.Op], Bound: bound, Right: true}, nil
}

func (c *converter) terms(ts []*grammar.Term) (ast.TermTuple, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	out := make(ast.TermTuple, len(ts))
	for i, t := range ts {
		term, err := c.term(t)
		if err != nil {
			return nil, err
		}
		out[i] = term
	}
	return out, nil
}

// term lowers the layered expression grammar (additive over multiplicative
// over unary over primary) into left-associated ArithTerm chains, constant-
// folding as it goes so that a ground expression like -2 or 3*4 arrives as
// a plain Number.
func (c *converter) term(t *grammar.Term) (ast.Term, error) {
	return c.addExpr(t.Add)
}

func (c *converter) addExpr(e *grammar.AddExpr) (ast.Term, error) {
	left, err := c.mulExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := c.mulExpr(op.Right)
		if err != nil {
			return nil, err
		}
		left = ast.Simplify(ast.NewArithTerm(c.id(), op2arith[op.Op], left, right))
	}
	return left, nil
}

func (c *converter) mulExpr(e *grammar.MulExpr) (ast.Term, error) {
	left, err := c.unaryExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := c.unaryExpr(op.Right)
		if err != nil {
			return nil, err
		}
		left = ast.Simplify(ast.NewArithTerm(c.id(), op2arith[op.Op], left, right))
	}
	return left, nil
}

func (c *converter) unaryExpr(e *grammar.UnaryExpr) (ast.Term, error) {
	prim, err := c.primTerm(e.Primary)
	if err != nil {
		return nil, err
	}
	if e.Neg {
		return ast.Simplify(ast.NewArithTerm(c.id(), ast.ArithNeg, prim, nil)), nil
	}
	return prim, nil
}

func (c *converter) primTerm(p *grammar.PrimTerm) (ast.Term, error) {
	switch {
	case p.Number != nil:
		return ast.NewNumber(c.id(), *p.Number), nil
	case p.Str != nil:
		value, err := strconv.Unquote(*p.Str)
		if err != nil {
			return nil, aerrors.Wrap(err, aerrors.ParseError, c.pos, "invalid string literal %s", *p.Str)
		}
		return ast.NewStringTerm(c.id(), value), nil
	case p.Anon:
		return ast.NewAnonVariable(c.id()), nil
	case p.Inf:
		return ast.NewInfimum(c.id()), nil
	case p.Sup:
		return ast.NewSupremum(c.id()), nil
	case p.Func != nil:
		args, err := c.terms(p.Func.Args)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctional(c.id(), p.Func.Name, args), nil
	case p.Var != nil:
		return ast.NewVariable(c.id(), *p.Var), nil
	case p.Const != nil:
		if debugmode.Enabled() && !symbolicName.MatchString(*p.Const) {
			return nil, aerrors.New(aerrors.ParseError, c.pos, "invalid symbolic constant %q", *p.Const)
		}
		return ast.NewSymbolicConstant(c.id(), *p.Const), nil
	case p.Paren != nil:
		return c.term(p.Paren)
	default:
		return nil, aerrors.New(aerrors.ParseError, c.pos, "empty term")
	}
}
