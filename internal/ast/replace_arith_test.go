package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceArithHoistsBodyArithmetic(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")

	// p(X) :- q(X), r(X+1).
	rule := NewNormalRule(id(),
		NewPredLiteral(id(), "p", TermTuple{x}, false, false),
		LiteralCollection{
			NewPredLiteral(id(), "q", TermTuple{x}, false, false),
			NewPredLiteral(id(), "r", TermTuple{
				NewArithTerm(id(), ArithAdd, x, NewNumber(id(), 1)),
			}, false, false),
		})

	got := ReplaceArithStatement(arena, rule)
	body := got.Body()
	require.Len(t, body, 3)

	r, ok := body[1].(*PredLiteral)
	require.True(t, ok)
	_, isArithVar := r.Args[0].(*ArithVariable)
	assert.True(t, isArithVar, "r's argument should be a hoisted arithmetic variable, got %T", r.Args[0])

	binding, ok := body[2].(*ArithBinding)
	require.True(t, ok)
	assert.Equal(t, "_Arith0=X+1", binding.String())
}

func TestReplaceArithIdempotent(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }
	x := NewVariable(id(), "X")

	rule := NewNormalRule(id(),
		NewPredLiteral(id(), "p", TermTuple{x}, false, false),
		LiteralCollection{
			NewPredLiteral(id(), "q", TermTuple{x}, false, false),
			NewPredLiteral(id(), "r", TermTuple{
				NewArithTerm(id(), ArithMul, x, NewNumber(id(), 2)),
			}, false, false),
		})

	once := ReplaceArithStatement(arena, rule)
	twice := ReplaceArithStatement(arena, once)
	assert.Equal(t, once.String(), twice.String())
}

func TestReplaceArithLeavesGroundArithmetic(t *testing.T) {
	arena := NewArena()
	id := func() NodeID { return arena.Alloc(Position{}) }

	// ground arithmetic is constant-folded territory, not a pattern problem
	rule := NewNormalRule(id(),
		NewPredLiteral(id(), "p", nil, false, false),
		LiteralCollection{
			NewPredLiteral(id(), "q", TermTuple{NewNumber(id(), 3)}, false, false),
		})

	got := ReplaceArithStatement(arena, rule)
	assert.Len(t, got.Body(), 1)
}
