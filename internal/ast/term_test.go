package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermTotalOrder(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }

	// #inf < numbers < symbolic constants < strings < functionals < #sup
	ordered := []Term{
		NewInfimum(id()),
		NewNumber(id(), -3),
		NewNumber(id(), 0),
		NewNumber(id(), 42),
		NewSymbolicConstant(id(), "abc"),
		NewSymbolicConstant(id(), "abd"),
		NewStringTerm(id(), "abc"),
		NewStringTerm(id(), "abd"),
		NewFunctional(id(), "f", TermTuple{NewNumber(id(), 1)}),
		NewFunctional(id(), "f", TermTuple{NewNumber(id(), 1), NewNumber(id(), 1)}),
		NewFunctional(id(), "f", TermTuple{NewNumber(id(), 2)}),
		NewFunctional(id(), "g", TermTuple{NewNumber(id(), 0)}),
		NewSupremum(id()),
	}

	for i, a := range ordered {
		for j, b := range ordered {
			if i < j {
				assert.True(t, a.Precedes(b), "%s should precede %s", a, b)
				assert.False(t, b.Precedes(a), "%s should not precede %s", b, a)
			}
			if i == j {
				assert.False(t, a.Precedes(b), "%s should not precede itself", a)
			}
		}
	}
}

func TestPrecedesUndefinedOnNonGround(t *testing.T) {
	arena := NewArena()
	x := NewVariable(arena.Alloc(Position{}), "X")
	one := NewNumber(arena.Alloc(Position{}), 1)

	assert.Panics(t, func() { x.Precedes(one) })
	assert.Panics(t, func() { NewAnonVariable(arena.Alloc(Position{})).Precedes(one) })
	assert.Panics(t, func() {
		NewArithTerm(arena.Alloc(Position{}), ArithAdd, x, one).Precedes(one)
	})
}

func TestSimplifyConstantFolding(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	num := func(v int) *Number { return NewNumber(id(), v) }

	tests := []struct {
		name string
		term Term
		want int
	}{
		{"add", NewArithTerm(id(), ArithAdd, num(2), num(3)), 5},
		{"sub", NewArithTerm(id(), ArithSub, num(2), num(3)), -1},
		{"mul", NewArithTerm(id(), ArithMul, num(4), num(-3)), -12},
		{"neg", NewArithTerm(id(), ArithNeg, num(7), nil), -7},
		// division truncates toward negative infinity
		{"div_exact", NewArithTerm(id(), ArithDiv, num(6), num(3)), 2},
		{"div_floor", NewArithTerm(id(), ArithDiv, num(-7), num(2)), -4},
		{"div_floor_neg", NewArithTerm(id(), ArithDiv, num(7), num(-2)), -4},
		// modulo takes the divisor's sign
		{"mod", NewArithTerm(id(), ArithMod, num(7), num(2)), 1},
		{"mod_floor", NewArithTerm(id(), ArithMod, num(-7), num(2)), 1},
		{"mod_floor_neg", NewArithTerm(id(), ArithMod, num(7), num(-2)), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.term)
			n, ok := got.(*Number)
			require.True(t, ok, "expected a Number, got %T", got)
			assert.Equal(t, tt.want, n.Value)
		})
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")

	terms := []Term{
		NewNumber(id(), 3),
		NewArithTerm(id(), ArithAdd, NewNumber(id(), 1), NewNumber(id(), 2)),
		NewArithTerm(id(), ArithAdd, x, NewNumber(id(), 2)), // non-ground: untouched
		NewArithTerm(id(), ArithNeg, NewNumber(id(), 5), nil),
	}
	for _, term := range terms {
		once := Simplify(term)
		twice := Simplify(once)
		assert.Equal(t, once.String(), twice.String(), "simplify(simplify(%s)) != simplify(%s)", term, term)
	}
}

func TestSubstituteFoldsArithmetic(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")
	sum := NewArithTerm(id(), ArithAdd, x, NewNumber(id(), 1))

	got := sum.Substitute(Substitution{"X": NewNumber(id(), 4)})
	n, ok := got.(*Number)
	require.True(t, ok)
	assert.Equal(t, 5, n.Value)
}

func TestSubstituteRemovesVars(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")
	y := NewVariable(id(), "Y")
	f := NewFunctional(id(), "f", TermTuple{x, y})

	got := f.Substitute(Substitution{"X": NewNumber(id(), 1)})
	vars := got.Vars()
	assert.False(t, vars.Contains("X"))
	assert.True(t, vars.Contains("Y"))
	assert.Equal(t, "f(1,Y)", got.String())
	// the original is untouched
	assert.Equal(t, "f(X,Y)", f.String())
}

func TestMatchTerm(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }

	x := NewVariable(id(), "X")
	one := NewNumber(id(), 1)

	subst, ok := MatchTerm(x, one)
	require.True(t, ok)
	assert.Equal(t, "1", subst["X"].String())

	_, ok = MatchTerm(NewNumber(id(), 2), one)
	assert.False(t, ok)

	subst, ok = MatchTerm(one, NewNumber(id(), 1))
	require.True(t, ok)
	assert.Empty(t, subst)
}

func TestMatchTermTupleConflict(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")

	// p(X, X) against p(1, 2): the second binding conflicts
	_, ok := MatchTermTuple(
		TermTuple{x, x},
		TermTuple{NewNumber(id(), 1), NewNumber(id(), 2)},
	)
	assert.False(t, ok)

	// p(X, X) against p(1, 1) matches
	subst, ok := MatchTermTuple(
		TermTuple{x, x},
		TermTuple{NewNumber(id(), 1), NewNumber(id(), 1)},
	)
	require.True(t, ok)
	assert.Equal(t, "1", subst["X"].String())
}

func TestMatchPredLiteral(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")

	pattern := NewPredLiteral(id(), "p", TermTuple{x}, false, false)
	candidate := NewPredLiteral(id(), "p", TermTuple{NewNumber(id(), 7)}, false, false)
	subst, ok := MatchPredLiteral(pattern, candidate)
	require.True(t, ok)
	assert.Equal(t, "7", subst["X"].String())

	// classical negation is part of the signature
	negCandidate := NewPredLiteral(id(), "p", TermTuple{NewNumber(id(), 7)}, false, true)
	_, ok = MatchPredLiteral(pattern, negCandidate)
	assert.False(t, ok)
}

func TestBuiltinEval(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	num := func(v int) *Number { return NewNumber(id(), v) }

	tests := []struct {
		op   RelOp
		l, r int
		want bool
	}{
		{RelEq, 1, 1, true},
		{RelEq, 1, 2, false},
		{RelNe, 1, 2, true},
		{RelLt, 1, 2, true},
		{RelLe, 2, 2, true},
		{RelGt, 1, 2, false},
		{RelGe, 2, 2, true},
	}
	for _, tt := range tests {
		lit := NewBuiltinLiteral(id(), tt.op, num(tt.l), num(tt.r), false)
		got, err := lit.Eval()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s", lit)
	}

	nonGround := NewBuiltinLiteral(id(), RelEq, NewVariable(id(), "X"), num(1), false)
	_, err := nonGround.Eval()
	assert.Error(t, err)
}
