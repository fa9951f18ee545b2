package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes ASP-Core-2 source. Keywords ("not", "count", "sum", ...)
// are not lexed specially — they fall out as ordinary Ident tokens and are
// matched by value in the grammar.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `%[^\n]*`, nil},

		// String literals
		{"String", `"(\\.|[^"\\])*"`, nil},

		// Variables start uppercase or with the anonymous-variable underscore;
		// everything else lowercase-starting is a predicate/constant name.
		{"Variable", `[A-Z_][a-zA-Z0-9_]*`, nil},
		{"Ident", `[a-z][a-zA-Z0-9_]*`, nil},

		// Integer literals (unary minus is handled in the grammar, not here)
		{"Integer", `[0-9]+`, nil},

		// Multi-character operators must be tried before the single-character
		// class below, since the stateful lexer takes the first rule that
		// matches at the current position.
		{"Operator", `(:-|:~|<=|>=|!=|[=<>+\-*/\\])`, nil},

		// Punctuation
		{"Punctuation", `[|;.,(){}\[\]@:#?]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
