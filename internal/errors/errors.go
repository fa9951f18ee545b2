// Package errors defines the grounder's typed error union and a Rust-style
// caret-formatted reporter.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"aspgrounder/internal/ast"
)

// Kind discriminates the grounder's error union.
type Kind int

const (
	// ParseError: the reference parser (grammar/, internal/parser) could
	// not build an AST from the input text.
	ParseError Kind = iota
	// UnsafeStatement: a statement failed safety characterization —
	// some variable never appears in a positive, ground-producing position.
	UnsafeStatement
	// UndefinedOrdering: the term total order was requested on a
	// non-ground term (Precedes on a variable). A programmer error in the
	// embedding code, fatal to the run.
	UndefinedOrdering
	// SubstitutionConflict: two partial matches disagree on a variable's
	// binding. Used internally by the instantiation engine to abandon a
	// branch; never expected to reach a caller of Ground, but kept in the
	// union for unit testing in isolation.
	SubstitutionConflict
	// InvalidRewrite: aggregate/choice rewriting encountered a
	// malformed guard specification (the same guard given on both sides,
	// or, in debug mode, a guard carried on the wrong side).
	InvalidRewrite
	// InternalInvariant: an invariant the grounder assumes always holds
	// was violated — a bug in the grounder itself, not the input program.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "parse error"
	case UnsafeStatement:
		return "unsafe statement"
	case UndefinedOrdering:
		return "undefined ordering"
	case SubstitutionConflict:
		return "substitution conflict"
	case InvalidRewrite:
		return "invalid rewrite"
	case InternalInvariant:
		return "internal invariant violated"
	default:
		return "error"
	}
}

// Error is the grounder's single error type. The errors the grounder raises
// itself are *Error (or wrap one), so callers can switch on Kind; a
// cancelled context surfaces as the context's own error instead.
type Error struct {
	Kind    Kind
	Message string
	Pos     ast.Position
	Rule    ast.Statement // nil if not rule-scoped
	Literal ast.Literal   // nil if not literal-scoped
	Cause   error
}

func New(kind Kind, pos ast.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause (with a stack trace via github.com/pkg/errors, printed
// whenever the Error is formatted with %+v) to a new *Error.
func Wrap(cause error, kind Kind, pos ast.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...), Cause: pkgerrors.WithStack(cause)}
}

func (e *Error) WithRule(r ast.Statement) *Error {
	e.Rule = r
	return e
}

func (e *Error) WithLiteral(l ast.Literal) *Error {
	e.Literal = l
	return e
}

func (e *Error) Error() string {
	if e.Pos.Line != 0 {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Format implements fmt.Formatter so that %+v on a wrapped Error prints the
// pkg/errors stack trace of its Cause; the debug-mode flag is not
// consulted.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && e.Cause != nil {
			fmt.Fprintf(s, "%s\n%+v", e.Error(), e.Cause)
			return
		}
		fmt.Fprint(s, e.Error())
	default:
		fmt.Fprint(s, e.Error())
	}
}
