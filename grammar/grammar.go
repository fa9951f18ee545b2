package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is the top-level grammar node: a sequence of statements, each
// terminated by ".", optionally followed by a single query atom terminated
// by "?".
type Program struct {
	Statements []*Statement `@@*`
	Query      *QueryG      `[ @@ ]`
}

// QueryG is an ASP-Core-2 query: a ground-or-not atom asked of the
// program, e.g. "path(a,b)?".
type QueryG struct {
	Atom *Atom `@@ "?"`
}

// Statement dispatches on the statement's distinguishing leading token —
// ":-" for a constraint, ":~" for a weak constraint, "#minimize"/
// "#maximize" for an optimization statement — falling back to Rule, which
// covers facts, normal/disjunctive rules and choice rules uniformly (a
// fact is just a Rule with no body). Pos is populated automatically by
// participle (a field of type lexer.Position needs no grammar tag).
type Statement struct {
	Pos        lexer.Position
	Constraint *Constraint   `(  @@`
	WeakConstr *WeakConstr   ` | @@`
	Optimize   *OptimizeStmt ` | @@`
	Rule       *Rule         ` | @@ )`
}

type Constraint struct {
	Body []*Literal `":-" [ @@ { "," @@ } ] "."`
}

type WeakConstr struct {
	Body   []*Literal     `":~" [ @@ { "," @@ } ] "."`
	Weight *WeightAtLevel `"[" @@ "]"`
}

type WeightAtLevel struct {
	Weight *Term   `@@`
	Level  *Term   `[ "@" @@ ]`
	Terms  []*Term `{ "," @@ }`
}

type OptimizeStmt struct {
	Kind     string        `"#" @("minimize" | "maximize")`
	Elements []*AggrElemG  `"{" [ @@ { ";" @@ } ] "}" "."`
}

type Rule struct {
	Head *Head      `@@`
	Body []*Literal `[ ":-" @@ { "," @@ } ] "."`
}

// Head is either a choice head ("{ ... }", optionally guarded) or a
// disjunction of plain atoms separated by "|".
type Head struct {
	Choice *ChoiceHead `(  @@`
	Atoms  []*Atom     ` | @@ { "|" @@ } )`
}

type ChoiceHead struct {
	LGuard   *LeftGuard     `[ @@ ]`
	Elements []*ChoiceElemG `"{" [ @@ { ";" @@ } ] "}"`
	RGuard   *RightGuard    `[ @@ ]`
}

type ChoiceElemG struct {
	Atom *Atom      `@@`
	Body []*Literal `[ ":" @@ { "," @@ } ]`
}

// LeftGuard is "Bound Op" appearing before an aggregate/choice's "{";
// RightGuard is "Op Bound" appearing after it — the two guard positions
// read in opposite token order.
type LeftGuard struct {
	Bound *Term  `@@`
	Op    string `@("=" | "!=" | "<=" | ">=" | "<" | ">")`
}

type RightGuard struct {
	Op    string `@("=" | "!=" | "<=" | ">=" | "<" | ">")`
	Bound *Term  `@@`
}

// Literal is one body literal: an optional "not", then an aggregate,
// built-in comparison, or plain atom, tried in that order since an
// aggregate/comparison's leading term would otherwise parse as an atom's
// bare predicate name.
type Literal struct {
	Naf     bool      `[ @"not" ]`
	Aggr    *AggrAtom `(  @@`
	Builtin *Builtin  ` | @@`
	Atom    *Atom     ` | @@ )`
}

type Builtin struct {
	Left  *Term  `@@`
	Op    string `@("=" | "!=" | "<=" | ">=" | "<" | ">")`
	Right *Term  `@@`
}

type Atom struct {
	Neg  bool    `[ @"-" ]`
	Pred string  `@Ident`
	Args []*Term `[ "(" @@ { "," @@ } ")" ]`
}

type AggrAtom struct {
	LGuard   *LeftGuard   `[ @@ ]`
	Func     string       `"#" @("count" | "sum" | "min" | "max")`
	Elements []*AggrElemG `"{" [ @@ { ";" @@ } ] "}"`
	RGuard   *RightGuard  `[ @@ ]`
}

type AggrElemG struct {
	Terms []*Term    `@@ { "," @@ }`
	Body  []*Literal `[ ":" @@ { "," @@ } ]`
}

// Term is the top of the arithmetic-expression grammar (additive
// precedence); MulExpr binds tighter, and UnaryExpr handles the leading
// unary minus.
type Term struct {
	Add *AddExpr `@@`
}

type AddExpr struct {
	Left *MulExpr `@@`
	Ops  []*AddOp `{ @@ }`
}

type AddOp struct {
	Op    string   `@("+" | "-")`
	Right *MulExpr `@@`
}

type MulExpr struct {
	Left *UnaryExpr `@@`
	Ops  []*MulOp   `{ @@ }`
}

type MulOp struct {
	Op    string     `@("*" | "/" | "\\")`
	Right *UnaryExpr `@@`
}

type UnaryExpr struct {
	Neg     bool      `[ @"-" ]`
	Primary *PrimTerm `@@`
}

// PrimTerm is a term leaf: a numeral, string, the anonymous variable, the
// #inf/#sup order bounds, a functional term (tried before a bare constant,
// since both start with Ident), a variable, a bare symbolic constant, or a
// parenthesized term.
type PrimTerm struct {
	Number *int      `  @Integer`
	Str    *string   `| @String`
	Anon   bool      `| @"_"`
	Inf    bool      `| "#" @"inf"`
	Sup    bool      `| "#" @"sup"`
	Func   *FuncTerm `| @@`
	Var    *string   `| @Variable`
	Const  *string   `| @Ident`
	Paren  *Term     `| "(" @@ ")"`
}

type FuncTerm struct {
	Name string  `@Ident "("`
	Args []*Term `@@ { "," @@ } ")"`
}
