package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspgrounder/internal/ast"
)

func TestErrorMessageCarriesKindAndPosition(t *testing.T) {
	err := New(UnsafeStatement, ast.Position{Filename: "prog.lp", Line: 3, Column: 5}, "rule is not safe: %s", "p(X).")
	assert.Equal(t, "prog.lp:3:5: unsafe statement: rule is not safe: p(X).", err.Error())
}

func TestErrorWithoutPosition(t *testing.T) {
	err := New(InternalInvariant, ast.Position{}, "broken")
	assert.Equal(t, "internal invariant violated: broken", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := New(SubstitutionConflict, ast.Position{}, "X bound twice")
	err := Wrap(cause, InternalInvariant, ast.Position{}, "while grounding")
	require.ErrorContains(t, err, "while grounding")
	assert.ErrorContains(t, err.Unwrap(), "X bound twice")
}

func TestReporterRendersCaret(t *testing.T) {
	src := "p(X) :- q(X).\nr(Y.\n"
	err := New(ParseError, ast.Position{Filename: "prog.lp", Line: 2, Column: 4}, "unexpected token")

	r := NewReporter(src)
	r.NoColor = true
	out := r.Report(err)

	assert.Contains(t, out, "error: unexpected token")
	assert.Contains(t, out, "--> prog.lp:2:4")
	assert.Contains(t, out, "2 | r(Y.")

	// the caret sits under column 4
	lines := strings.Split(out, "\n")
	var caretLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caretLine = l
		}
	}
	require.NotEmpty(t, caretLine)
	// the gutter is "<width> | " (4 chars for a one-digit line number), so
	// the caret for column 4 lands at index 4 + 3
	assert.Equal(t, 7, strings.Index(caretLine, "^"), "caret column: %q", caretLine)
}
