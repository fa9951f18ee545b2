package grammar

import (
	"github.com/alecthomas/participle/v2"
)

// Parser is the participle parser for the grammar in this package, built
// once at package load. The lookahead budget is generous because several
// productions (built-in comparison vs. plain atom, choice head vs. rule
// head) only diverge after an arbitrarily long term has been consumed.
var Parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(64),
)

// Parse builds the raw grammar tree for src. Conversion into the grounder's
// AST (and friendlier error reporting) lives in internal/parser; callers
// wanting a caret-style syntax-error rendering inspect the returned
// participle.Error themselves.
func Parse(name, src string) (*Program, error) {
	return Parser.ParseString(name, src)
}
