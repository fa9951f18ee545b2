package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aspgrounder/internal/ast"
)

func rightGuard(op ast.RelOp, bound int) *ast.Guard {
	return &ast.Guard{Op: op, Bound: ast.NewNumber(0, bound), Right: true}
}

func leftGuard(op ast.RelOp, bound int) *ast.Guard {
	return &ast.Guard{Op: op, Bound: ast.NewNumber(0, bound), Right: false}
}

func TestGuardSatisfiable(t *testing.T) {
	lo, hi := ast.NewNumber(0, 2), ast.NewNumber(0, 3)

	assert.True(t, guardSatisfiable(nil, lo, hi))
	assert.True(t, guardSatisfiable(rightGuard(ast.RelLe, 2), lo, hi))
	assert.False(t, guardSatisfiable(rightGuard(ast.RelLe, 1), lo, hi))
	assert.True(t, guardSatisfiable(rightGuard(ast.RelGe, 3), lo, hi))
	assert.False(t, guardSatisfiable(rightGuard(ast.RelGt, 3), lo, hi))
	assert.True(t, guardSatisfiable(rightGuard(ast.RelEq, 2), lo, hi))
	assert.False(t, guardSatisfiable(rightGuard(ast.RelEq, 4), lo, hi))
	assert.True(t, guardSatisfiable(rightGuard(ast.RelNe, 2), lo, hi))

	// a left guard reads in mirrored token order: "2 <= value"
	assert.True(t, guardSatisfiable(leftGuard(ast.RelLe, 2), lo, hi))
	assert.False(t, guardSatisfiable(leftGuard(ast.RelGt, 1), lo, hi)) // 1 > value never holds on [2,3]
}

func TestGuardValid(t *testing.T) {
	lo, hi := ast.NewNumber(0, 2), ast.NewNumber(0, 3)

	assert.True(t, guardValid(nil, lo, hi))
	assert.True(t, guardValid(rightGuard(ast.RelLe, 3), lo, hi))
	assert.False(t, guardValid(rightGuard(ast.RelLe, 2), lo, hi), "3 would violate it")
	assert.True(t, guardValid(rightGuard(ast.RelGe, 2), lo, hi))
	assert.True(t, guardValid(rightGuard(ast.RelNe, 5), lo, hi))
	assert.False(t, guardValid(rightGuard(ast.RelNe, 3), lo, hi), "bound inside the range")

	exact := ast.NewNumber(0, 2)
	assert.True(t, guardValid(rightGuard(ast.RelEq, 2), exact, exact))
	assert.False(t, guardValid(rightGuard(ast.RelEq, 2), lo, hi))
}

func TestPropagateCount(t *testing.T) {
	// three certain tuples: the count is pinned at 3
	sat, valid := propagateCount(nil, rightGuard(ast.RelLe, 3), 3, 3)
	assert.True(t, sat)
	assert.True(t, valid)

	sat, _ = propagateCount(nil, rightGuard(ast.RelLe, 2), 3, 3)
	assert.False(t, sat)

	// nothing certain, three possible: [0,3]
	sat, valid = propagateCount(nil, rightGuard(ast.RelLe, 2), 0, 3)
	assert.True(t, sat)
	assert.False(t, valid)

	sat, valid = propagateCount(nil, rightGuard(ast.RelNe, 1), 2, 2)
	assert.True(t, sat)
	assert.True(t, valid)

	sat, _ = propagateCount(nil, rightGuard(ast.RelNe, 2), 2, 2)
	assert.False(t, sat)
}

func TestPropagateSumMixedSigns(t *testing.T) {
	// certain 1 + (-2) = -1; uncertain -3 and +4 widen to [-4, 3]
	certain := []int{1, -2}
	uncertain := []int{-3, 4}

	sat, valid := propagateSum(nil, rightGuard(ast.RelEq, -2), certain, uncertain)
	assert.True(t, sat)
	assert.False(t, valid)

	sat, _ = propagateSum(nil, rightGuard(ast.RelEq, -5), certain, uncertain)
	assert.False(t, sat, "-5 is below even the all-negatives bound")

	sat, _ = propagateSum(nil, rightGuard(ast.RelGe, 4), certain, uncertain)
	assert.False(t, sat, "4 exceeds the all-positives bound")

	sat, _ = propagateSum(nil, rightGuard(ast.RelGe, 3), certain, uncertain)
	assert.True(t, sat)

	// all-certain weights pin the sum exactly
	sat, valid = propagateSum(nil, rightGuard(ast.RelEq, -1), certain, nil)
	assert.True(t, sat)
	assert.True(t, valid)
}

func TestPropagateMin(t *testing.T) {
	num := func(v int) ast.Term { return ast.NewNumber(0, v) }

	// certain {3}, uncertain {1}: realized minimum lies in [1, 3]
	sat, valid := propagateMin(nil, rightGuard(ast.RelLe, 2), []ast.Term{num(3)}, []ast.Term{num(1)})
	assert.True(t, sat)
	assert.False(t, valid)

	sat, _ = propagateMin(nil, rightGuard(ast.RelLt, 1), []ast.Term{num(3)}, []ast.Term{num(1)})
	assert.False(t, sat)

	// no elements at all: the minimum is the identity #sup
	sat, _ = propagateMin(nil, rightGuard(ast.RelLe, 100), nil, nil)
	assert.False(t, sat, "#sup is greater than every number")
}

func TestPropagateMax(t *testing.T) {
	num := func(v int) ast.Term { return ast.NewNumber(0, v) }

	// certain {1}, uncertain {3}: realized maximum lies in [1, 3]
	sat, valid := propagateMax(nil, rightGuard(ast.RelGe, 2), []ast.Term{num(1)}, []ast.Term{num(3)})
	assert.True(t, sat)
	assert.False(t, valid)

	sat, _ = propagateMax(nil, rightGuard(ast.RelGt, 3), []ast.Term{num(1)}, []ast.Term{num(3)})
	assert.False(t, sat)

	// no elements: the maximum is the identity #inf
	sat, _ = propagateMax(nil, rightGuard(ast.RelGe, 0), nil, nil)
	assert.False(t, sat, "#inf is smaller than every number")
}

func TestPropagateChoiceAlwaysSatisfiable(t *testing.T) {
	assert.True(t, propagateChoice(nil, nil))
	assert.True(t, propagateChoice(leftGuard(ast.RelGe, 10), rightGuard(ast.RelLe, 0)))
}
