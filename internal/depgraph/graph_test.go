package depgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspgrounder/internal/ast"
)

func atom(arena *ast.Arena, pred string, naf bool, vars ...string) *ast.PredLiteral {
	args := make(ast.TermTuple, len(vars))
	for i, v := range vars {
		args[i] = ast.NewVariable(arena.Alloc(ast.Position{}), v)
	}
	return ast.NewPredLiteral(arena.Alloc(ast.Position{}), pred, args, naf, false)
}

func rule(arena *ast.Arena, head *ast.PredLiteral, body ...ast.Literal) *ast.NormalRule {
	return ast.NewNormalRule(arena.Alloc(ast.Position{}), head, ast.LiteralCollection(body))
}

func TestBuildPositiveAndNegativeEdges(t *testing.T) {
	arena := ast.NewArena()

	// 0: p(X) :- q(X).      positive edge 0 -> 1
	// 1: q(X) :- not r(X), d(X).  negative edge 1 -> 2, positive edge 1 -> 3
	// 2: r(X) :- d(X).      positive edge 2 -> 3
	// 3: d(1).
	stmts := []ast.Statement{
		rule(arena, atom(arena, "p", false, "X"), atom(arena, "q", false, "X")),
		rule(arena, atom(arena, "q", false, "X"), atom(arena, "r", true, "X"), atom(arena, "d", false, "X")),
		rule(arena, atom(arena, "r", false, "X"), atom(arena, "d", false, "X")),
		ast.NewFact(arena.Alloc(ast.Position{}), ast.NewPredLiteral(arena.Alloc(ast.Position{}), "d", ast.TermTuple{ast.NewNumber(arena.Alloc(ast.Position{}), 1)}, false, false)),
	}

	g := Build(stmts)

	assert.True(t, g.Pos[0][1])
	assert.True(t, g.Neg[1][2])
	assert.True(t, g.Pos[1][3])
	assert.True(t, g.Pos[2][3])
	assert.False(t, g.Pos[1][2], "NAF dependency must not also be a positive edge")
	assert.False(t, g.Pos[3] != nil && g.Pos[3][0], "facts depend on nothing")

	want := [][2]int{{0, 1}, {1, 2}, {1, 3}, {2, 3}}
	assert.Empty(t, cmp.Diff(want, g.Edges()))
}

func TestEdgesKeyOnNameAndArity(t *testing.T) {
	arena := ast.NewArena()

	// d/0 and d/1 are distinct predicates
	stmts := []ast.Statement{
		rule(arena, atom(arena, "p", false), atom(arena, "d", false)),
		rule(arena, atom(arena, "d", false, "X"), atom(arena, "u", false, "X")),
	}
	g := Build(stmts)
	assert.Empty(t, g.Pos[0], "p :- d must not depend on the rule deriving d/1")
}

func TestSCCMutualRecursion(t *testing.T) {
	arena := ast.NewArena()

	// 0: p(X) :- not q(X), d(X).
	// 1: q(X) :- not p(X), d(X).
	// 2: d(1).
	stmts := []ast.Statement{
		rule(arena, atom(arena, "p", false, "X"), atom(arena, "q", true, "X"), atom(arena, "d", false, "X")),
		rule(arena, atom(arena, "q", false, "X"), atom(arena, "p", true, "X"), atom(arena, "d", false, "X")),
		ast.NewFact(arena.Alloc(ast.Position{}), ast.NewPredLiteral(arena.Alloc(ast.Position{}), "d", ast.TermTuple{ast.NewNumber(arena.Alloc(ast.Position{}), 1)}, false, false)),
	}

	g := Build(stmts)
	comps := g.SCCs()
	require.Len(t, comps, 2)

	var pq *Component
	for i := range comps {
		if len(comps[i].Nodes) == 2 {
			pq = &comps[i]
		}
	}
	require.NotNil(t, pq, "the mutually recursive rules must share a component")
	assert.Equal(t, []int{0, 1}, pq.Nodes)
	assert.False(t, pq.Stratified, "a component with internal negative edges is not stratified")
}

func TestSCCSeparatesIndependentRules(t *testing.T) {
	arena := ast.NewArena()

	stmts := []ast.Statement{
		rule(arena, atom(arena, "a", false), atom(arena, "b", false)),
		rule(arena, atom(arena, "b", false), atom(arena, "c", false)),
		rule(arena, atom(arena, "c", false)),
	}
	g := Build(stmts)
	comps := g.SCCs()
	require.Len(t, comps, 3)
	for _, c := range comps {
		assert.Len(t, c.Nodes, 1)
		assert.True(t, c.Stratified)
	}
}

func TestRefinedSequenceRespectsDependencies(t *testing.T) {
	arena := ast.NewArena()

	// a :- b.  b :- c.  c. — the sequence must run c, then b, then a.
	stmts := []ast.Statement{
		rule(arena, atom(arena, "a", false), atom(arena, "b", false)),
		rule(arena, atom(arena, "b", false), atom(arena, "c", false)),
		rule(arena, atom(arena, "c", false)),
	}
	g := Build(stmts)
	seq := RefinedSequence(g)

	require.Len(t, seq.Components, 3)
	order := make([]int, 0, 3)
	for _, c := range seq.Components {
		require.Len(t, c.Nodes, 1)
		order = append(order, c.Nodes[0])
	}
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestRefinedSequencePlacesNegativeDependenciesFirst(t *testing.T) {
	arena := ast.NewArena()

	// x :- not p.  p :- d.  d.
	stmts := []ast.Statement{
		rule(arena, atom(arena, "x", false), atom(arena, "p", true)),
		rule(arena, atom(arena, "p", false), atom(arena, "d", false)),
		rule(arena, atom(arena, "d", false)),
	}
	g := Build(stmts)
	seq := RefinedSequence(g)

	pos := map[int]int{}
	for i, c := range seq.Components {
		pos[c.Nodes[0]] = i
	}
	assert.Greater(t, pos[0], pos[1], "x's component must come after p's")
	assert.Greater(t, pos[1], pos[2], "p's component must come after d's")
}
