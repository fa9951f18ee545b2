package safety

import "aspgrounder/internal/ast"

// LiteralSafety computes the safety contribution of a single body literal,
// positive predicate (and rewritten placeholder) literals
// make their variables unconditionally safe; negated literals and
// comparisons other than "=" contribute no rule, leaving their variables
// unsafe until some sibling literal promotes them; "=" (and the
// ArithBinding literals ReplaceArith introduces) propagate safety from
// whichever side is already resolvable to the other.
func LiteralSafety(l ast.Literal) Triplet {
	switch lit := l.(type) {
	case *ast.PredLiteral:
		if lit.Naf() {
			return FromUnsafe(lit.Vars())
		}
		return FromSafe(lit.Vars())
	case *ast.AggrPlaceholder:
		if lit.Naf() {
			return FromUnsafe(lit.Vars())
		}
		return FromSafe(lit.Vars())
	case *ast.ChoicePlaceholder:
		return FromSafe(lit.Vars())
	case *ast.BuiltinLiteral:
		return builtinSafety(lit)
	case *ast.ArithBinding:
		return Triplet{
			Safe:   ast.VarSet{},
			Unsafe: lit.Var.Vars(),
			Rules:  []Rule{{Depends: lit.Var.Vars(), Requires: lit.Expr.Vars()}},
		}
	case *ast.AggrLiteral:
		return aggrLikeSafety(guardVars(lit.LGuard, lit.RGuard))
	default:
		// Un-rewritten Choice/aggregate shapes encountered directly (only
		// possible before internal/rewrite runs): their guard variables
		// must already be safe from elsewhere; the aggregate/choice itself
		// never establishes safety.
		return Triplet{Safe: ast.VarSet{}, Unsafe: ast.VarSet{}}
	}
}

func aggrLikeSafety(vars ast.VarSet) Triplet {
	return FromUnsafe(vars)
}

func guardVars(lg, rg *ast.Guard) ast.VarSet {
	vars := ast.VarSet{}
	if lg != nil {
		vars = vars.Union(lg.Bound.Vars())
	}
	if rg != nil {
		vars = vars.Union(rg.Bound.Vars())
	}
	return vars
}

// builtinSafety implements "= contributes left- or right-propagation
// of safety based on which side is a pure variable": X = expr makes X
// depend on expr's variables (and vice versa for expr = X); anything other
// than "=", or an "=" where neither side is a bare variable, contributes no
// rule.
func builtinSafety(l *ast.BuiltinLiteral) Triplet {
	if l.Negated || l.Op != ast.RelEq {
		return FromUnsafe(l.Vars())
	}
	var rules []Rule
	if v, ok := l.Lhs.(*ast.Variable); ok {
		rules = append(rules, Rule{Depends: ast.NewVarSet(v), Requires: l.Rhs.Vars()})
	}
	if v, ok := l.Rhs.(*ast.Variable); ok {
		rules = append(rules, Rule{Depends: ast.NewVarSet(v), Requires: l.Lhs.Vars()})
	}
	return Triplet{Safe: ast.VarSet{}, Unsafe: l.Vars(), Rules: rules}
}

// BodySafety merges every body literal's contribution (Merge already
// normalizes after each pairwise combination).
func BodySafety(body ast.LiteralCollection) Triplet {
	t := Empty()
	for _, l := range body {
		t = Merge(t, LiteralSafety(l))
	}
	return t
}

// Safe reports whether body is safe with respect to globalVars: the
// closure of its combined safety triplet must leave no body variable unsafe
// and place every global variable in Safe.
func Safe(body ast.LiteralCollection, globalVars ast.VarSet) bool {
	return SafeTriplet(BodySafety(body), globalVars)
}
