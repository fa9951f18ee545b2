package parser

import "aspgrounder/internal/ast"

// The operator registries: surface-syntax operator spellings mapped
// to the AST enum the corresponding term/literal constructor takes.
var (
	op2arith = map[string]ast.ArithOp{
		"+":  ast.ArithAdd,
		"-":  ast.ArithSub,
		"*":  ast.ArithMul,
		"/":  ast.ArithDiv,
		"\\": ast.ArithMod,
	}

	op2rel = map[string]ast.RelOp{
		"=":  ast.RelEq,
		"!=": ast.RelNe,
		"<":  ast.RelLt,
		"<=": ast.RelLe,
		">":  ast.RelGt,
		">=": ast.RelGe,
	}

	op2aggr = map[string]ast.AggrFunc{
		"count": ast.AggrCount,
		"sum":   ast.AggrSum,
		"min":   ast.AggrMin,
		"max":   ast.AggrMax,
	}
)
