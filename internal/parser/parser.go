// Package parser turns
// ASP-Core-2 source text into the internal/ast program the grounder
// consumes, delegating tokenization and tree building to the participle
// grammar in grammar/ and converting the raw tree into typed AST nodes
// with positions registered in the program's arena.
package parser

import (
	"errors"

	"github.com/alecthomas/participle/v2"

	"aspgrounder/grammar"
	"aspgrounder/internal/ast"
	aerrors "aspgrounder/internal/errors"
)

// ParseProgram parses src (named name in diagnostics) into an AST program.
// Syntax errors surface as *errors.Error of kind ParseError carrying the
// offending source position.
func ParseProgram(name, src string) (*ast.Program, error) {
	tree, err := grammar.Parse(name, src)
	if err != nil {
		pos := ast.Position{Filename: name}
		var pe participle.Error
		if errors.As(err, &pe) {
			p := pe.Position()
			pos = ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
		}
		return nil, aerrors.Wrap(err, aerrors.ParseError, pos, "%s", err.Error())
	}
	return convert(name, tree)
}
