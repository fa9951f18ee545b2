package ground

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "aspgrounder/internal/errors"
	"aspgrounder/internal/parser"
)

func TestGroundRejectsUnsafeRules(t *testing.T) {
	program, err := parser.ParseProgram("test.lp", `p(X) :- not q(X). q(1).`)
	require.NoError(t, err)

	_, err = Ground(context.Background(), program, Options{})
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 1)
	ge, ok := merr.Errors[0].(*aerrors.Error)
	require.True(t, ok)
	assert.Equal(t, aerrors.UnsafeStatement, ge.Kind)
	assert.NotNil(t, ge.Rule)
}

func TestGroundReportsEveryUnsafeRule(t *testing.T) {
	program, err := parser.ParseProgram("test.lp", `p(X) :- not q(X). r(Y) :- Y < 3.`)
	require.NoError(t, err)

	_, err = Ground(context.Background(), program, Options{})
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 2, "both unsafe rules should be reported in one pass")
}

func TestGroundDeduplicatesRules(t *testing.T) {
	// (1,2) and (2,1) instantiate the same body multiset
	rows := mustGround(t, `p :- q(X), q(Y). q(1). q(2).`)

	var pRules []string
	for _, row := range rows {
		if strings.HasPrefix(row, "p :-") {
			pRules = append(pRules, row)
		}
	}
	assert.ElementsMatch(t, []string{
		"p :- q(1),q(1).",
		"p :- q(1),q(2).",
		"p :- q(2),q(2).",
	}, pRules)
}

func TestGroundResolvesBodyArithmetic(t *testing.T) {
	rows := mustGround(t, `p(X) :- q(X), r(X+1). q(1). q(2). r(2). r(5).`)

	assert.Contains(t, rows, "p(1) :- q(1),r(2).")
	for _, row := range rows {
		assert.NotContains(t, row, "p(2)", "X=2 needs r(3), which is not derivable")
		assert.NotContains(t, row, "_Arith", "binding literals are internal, never emitted")
	}
}

func TestGroundHeadArithmetic(t *testing.T) {
	rows := mustGround(t, `p(X+1) :- q(X). q(1). q(2).`)
	assert.Contains(t, rows, "p(2) :- q(1).")
	assert.Contains(t, rows, "p(3) :- q(2).")
}

func TestGroundClassicalNegation(t *testing.T) {
	rows := mustGround(t, `-p(1). q(X) :- -p(X), u(X). u(1).`)
	assert.Contains(t, rows, "-p(1).")
	assert.Contains(t, rows, "q(1) :- -p(1),u(1).")
}

func TestGroundEmptyConstraint(t *testing.T) {
	// accepted as trivial rather than rejected (see DESIGN.md)
	rows := mustGround(t, `:- .`)
	assert.Contains(t, rows, ":- .")
}

func TestGroundConstraintInstances(t *testing.T) {
	rows := mustGround(t, `p(1). p(2). :- p(X), X > 1.`)
	assert.Contains(t, rows, ":- p(2),2>1.")
	for _, row := range rows {
		assert.NotContains(t, row, "1>1")
	}
}

func TestGroundDisjunctiveRule(t *testing.T) {
	rows := mustGround(t, `p(X) | q(X) :- d(X). d(1).`)
	assert.Contains(t, rows, "p(1) | q(1) :- d(1).")
}

func TestGroundHonorsCancellation(t *testing.T) {
	program, err := parser.ParseProgram("test.lp", `p(1).`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Ground(ctx, program, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroundMaxRulesLimit(t *testing.T) {
	program, err := parser.ParseProgram("test.lp", `q(1). q(2). q(3). p(X) :- q(X).`)
	require.NoError(t, err)

	_, err = Ground(context.Background(), program, Options{MaxGroundRules: 2})
	require.Error(t, err)
	ge, ok := err.(*aerrors.Error)
	require.True(t, ok)
	assert.Equal(t, aerrors.InternalInvariant, ge.Kind)
}
