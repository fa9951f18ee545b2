package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspgrounder/internal/ast"
	"aspgrounder/internal/depgraph"
)

func groundAtom(arena *ast.Arena, pred string, arg int) *ast.PredLiteral {
	return ast.NewPredLiteral(arena.Alloc(ast.Position{}), pred,
		ast.TermTuple{ast.NewNumber(arena.Alloc(ast.Position{}), arg)}, false, false)
}

func TestAtomIndexAddAndContains(t *testing.T) {
	arena := ast.NewArena()
	idx := NewAtomIndex()

	p1 := groundAtom(arena, "p", 1)
	assert.True(t, idx.Add(p1))
	assert.False(t, idx.Add(groundAtom(arena, "p", 1)), "duplicate atoms are not re-added")
	assert.True(t, idx.Contains(p1))
	assert.False(t, idx.Contains(groundAtom(arena, "p", 2)))
}

func TestAtomIndexCandidatesBySignature(t *testing.T) {
	arena := ast.NewArena()
	idx := NewAtomIndex()
	idx.Add(groundAtom(arena, "p", 1))
	idx.Add(groundAtom(arena, "p", 2))
	idx.Add(groundAtom(arena, "q", 1))

	cands := idx.Candidates(depgraph.PredSig{Name: "p", Arity: 1})
	require.Len(t, cands, 2)
	assert.Equal(t, "p(1)", cands[0].String())
	assert.Equal(t, "p(2)", cands[1].String())
	assert.Len(t, idx.All(), 3)
}

func TestAtomIndexCloneIsIndependent(t *testing.T) {
	arena := ast.NewArena()
	idx := NewAtomIndex()
	idx.Add(groundAtom(arena, "p", 1))

	clone := idx.Clone()
	clone.Add(groundAtom(arena, "p", 2))

	assert.Len(t, idx.All(), 1)
	assert.Len(t, clone.All(), 2)
}

func TestAtomIndexClassicalNegationDistinct(t *testing.T) {
	arena := ast.NewArena()
	idx := NewAtomIndex()
	pos := groundAtom(arena, "p", 1)
	neg := ast.NewPredLiteral(arena.Alloc(ast.Position{}), "p",
		ast.TermTuple{ast.NewNumber(arena.Alloc(ast.Position{}), 1)}, false, true)

	idx.Add(neg)
	assert.False(t, idx.Contains(pos), "-p(1) and p(1) are distinct atoms")
	assert.Empty(t, idx.Candidates(depgraph.PredSig{Name: "p", Arity: 1}))
}
