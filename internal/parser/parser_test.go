package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspgrounder/internal/ast"
	aerrors "aspgrounder/internal/errors"
)

func parseOne(t *testing.T, src string) ast.Statement {
	t.Helper()
	program, err := ParseProgram("test.lp", src)
	require.NoError(t, err)
	require.Len(t, program.Statements, 1)
	return program.Statements[0]
}

func TestParseFact(t *testing.T) {
	s := parseOne(t, `p(1).`)
	fact, ok := s.(*ast.Fact)
	require.True(t, ok)
	assert.Equal(t, "p(1).", fact.String())
	assert.True(t, fact.Ground())
}

func TestParseZeroArityFact(t *testing.T) {
	s := parseOne(t, `a.`)
	fact, ok := s.(*ast.Fact)
	require.True(t, ok)
	assert.Equal(t, "a.", fact.String())
}

func TestParseNormalRule(t *testing.T) {
	s := parseOne(t, `p(X) :- not q(X), u(X).`)
	rule, ok := s.(*ast.NormalRule)
	require.True(t, ok)
	assert.Equal(t, "p(X) :- not q(X),u(X).", rule.String())

	body := rule.Body()
	require.Len(t, body, 2)
	naf, ok := body[0].(*ast.PredLiteral)
	require.True(t, ok)
	assert.True(t, naf.Naf())
}

func TestParseClassicalNegation(t *testing.T) {
	s := parseOne(t, `q(X) :- -p(X), u(X).`)
	rule, ok := s.(*ast.NormalRule)
	require.True(t, ok)
	neg, ok := rule.Body()[0].(*ast.PredLiteral)
	require.True(t, ok)
	assert.True(t, neg.Classical)
	assert.False(t, neg.Naf())
	assert.Equal(t, "-p(X)", neg.String())
}

func TestParseDisjunctiveRule(t *testing.T) {
	s := parseOne(t, `p(X) | q(X) :- d(X).`)
	rule, ok := s.(*ast.DisjunctiveRule)
	require.True(t, ok)
	assert.Len(t, rule.Head(), 2)
	assert.Equal(t, "p(X) | q(X) :- d(X).", rule.String())
}

func TestParseBuiltins(t *testing.T) {
	s := parseOne(t, `p(X) :- d(X), X != 2, X <= 5.`)
	body := s.Body()
	require.Len(t, body, 3)

	ne, ok := body[1].(*ast.BuiltinLiteral)
	require.True(t, ok)
	assert.Equal(t, ast.RelNe, ne.Op)

	le, ok := body[2].(*ast.BuiltinLiteral)
	require.True(t, ok)
	assert.Equal(t, ast.RelLe, le.Op)
}

func TestParseArithmetic(t *testing.T) {
	s := parseOne(t, `p(X+1*2) :- q(X).`)
	rule := s.(*ast.NormalRule)
	// multiplication binds tighter and the ground factor folds
	assert.Equal(t, "p(X+2) :- q(X).", rule.String())
}

func TestParseUnaryMinusFolds(t *testing.T) {
	s := parseOne(t, `p(b,-2).`)
	fact := s.(*ast.Fact)
	n, ok := fact.Atom.Args[1].(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, -2, n.Value)
}

func TestParseAggregate(t *testing.T) {
	s := parseOne(t, `a :- 1 <= #count{X: p(X); X: q(X)} <= 2.`)
	body := s.Body()
	require.Len(t, body, 1)

	aggr, ok := body[0].(*ast.AggrLiteral)
	require.True(t, ok)
	assert.Equal(t, ast.AggrCount, aggr.Func)
	require.Len(t, aggr.Elements, 2)
	require.NotNil(t, aggr.LGuard)
	require.NotNil(t, aggr.RGuard)
	assert.False(t, aggr.LGuard.Right)
	assert.True(t, aggr.RGuard.Right)
	assert.Equal(t, "1<=#count{X:p(X);X:q(X)}<=2", aggr.String())
}

func TestParseSumAggregateWithNaf(t *testing.T) {
	s := parseOne(t, `:- not #sum{W,X: p(X,W)} >= 0.`)
	constraint, ok := s.(*ast.Constraint)
	require.True(t, ok)
	aggr, ok := constraint.Body()[0].(*ast.AggrLiteral)
	require.True(t, ok)
	assert.Equal(t, ast.AggrSum, aggr.Func)
	assert.True(t, aggr.Naf())
}

func TestParseChoiceRule(t *testing.T) {
	s := parseOne(t, `X >= {p(Y): q(Y); q(0): p(0)} :- f(X).`)
	rule, ok := s.(*ast.ChoiceRule)
	require.True(t, ok)

	choice := rule.Choice()
	require.Len(t, choice.Elements, 2)
	require.NotNil(t, choice.LGuard)
	assert.Equal(t, ast.RelGe, choice.LGuard.Op)
	assert.Equal(t, "X>={p(Y):q(Y);q(0):p(0)} :- f(X).", rule.String())
}

func TestParseConstraint(t *testing.T) {
	s := parseOne(t, `:- p(X), q(X).`)
	_, ok := s.(*ast.Constraint)
	require.True(t, ok)
	assert.Equal(t, ":- p(X),q(X).", s.String())
}

func TestParseEmptyConstraint(t *testing.T) {
	s := parseOne(t, `:- .`)
	constraint, ok := s.(*ast.Constraint)
	require.True(t, ok)
	assert.Empty(t, constraint.Body())
}

func TestParseWeakConstraint(t *testing.T) {
	s := parseOne(t, `:~ p(X), q(X). [X@2,X]`)
	wc, ok := s.(*ast.WeakConstraint)
	require.True(t, ok)
	assert.Equal(t, ":~ p(X),q(X). [X@2,X]", wc.String())
}

func TestParseWeakConstraintDefaultLevel(t *testing.T) {
	s := parseOne(t, `:~ p(X). [1]`)
	wc, ok := s.(*ast.WeakConstraint)
	require.True(t, ok)
	assert.Equal(t, "1@0", wc.Weight.String())
}

func TestParseOptimizeStatement(t *testing.T) {
	s := parseOne(t, `#minimize{X: p(X)}.`)
	opt, ok := s.(*ast.OptimizeStatement)
	require.True(t, ok)
	assert.Equal(t, ast.Minimize, opt.Kind)
	assert.Equal(t, "#minimize{X:p(X)}.", opt.String())

	s = parseOne(t, `#maximize{1,X: q(X)}.`)
	opt = s.(*ast.OptimizeStatement)
	assert.Equal(t, ast.Maximize, opt.Kind)
}

func TestParseTermLeaves(t *testing.T) {
	s := parseOne(t, `p("hello", f(a,1), #inf, #sup, _) :- q(_).`)
	rule := s.(*ast.NormalRule)
	args := rule.Atom.Args
	require.Len(t, args, 5)

	str, ok := args[0].(*ast.StringTerm)
	require.True(t, ok)
	assert.Equal(t, "hello", str.Value)

	fn, ok := args[1].(*ast.Functional)
	require.True(t, ok)
	assert.Equal(t, "f(a,1)", fn.String())

	_, isInf := args[2].(*ast.Infimum)
	assert.True(t, isInf)
	_, isSup := args[3].(*ast.Supremum)
	assert.True(t, isSup)
	_, isAnon := args[4].(*ast.AnonVariable)
	assert.True(t, isAnon)
}

func TestParseQuery(t *testing.T) {
	program, err := ParseProgram("test.lp", "p(1). p(X)?")
	require.NoError(t, err)
	require.NotNil(t, program.Query)
	assert.Equal(t, "p(X)?", program.Query.String())
	assert.Len(t, program.Statements, 1)

	noQuery, err := ParseProgram("test.lp", "p(1).")
	require.NoError(t, err)
	assert.Nil(t, noQuery.Query)
}

func TestParseComments(t *testing.T) {
	program, err := ParseProgram("test.lp", "% a comment\np(1). % trailing\n")
	require.NoError(t, err)
	assert.Len(t, program.Statements, 1)
}

func TestParseErrorKindAndPosition(t *testing.T) {
	_, err := ParseProgram("bad.lp", `p(1`)
	require.Error(t, err)
	ge, ok := err.(*aerrors.Error)
	require.True(t, ok)
	assert.Equal(t, aerrors.ParseError, ge.Kind)
	assert.Equal(t, "bad.lp", ge.Pos.Filename)
}

func TestParsePositionsRecorded(t *testing.T) {
	program, err := ParseProgram("pos.lp", "p(1).\nq(2).")
	require.NoError(t, err)
	require.Len(t, program.Statements, 2)
	pos := program.Arena.Pos(program.Statements[1].ID())
	assert.Equal(t, 2, pos.Line)
}
