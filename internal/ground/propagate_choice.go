package ground

import "aspgrounder/internal/ast"

// propagateChoice is the choice counterpart of aggregate propagation: a choice's cardinality
// bound is a constraint on the solver's eventual selection among the
// ground elements, never on grounding-time satisfiability, so propagation
// always succeeds — the guard is carried into the assembled Choice and
// enforced at solve time.
func propagateChoice(*ast.Guard, *ast.Guard) bool {
	return true
}
