package ground

import "aspgrounder/internal/ast"

// propagateCount bounds a COUNT aggregate's achievable value: the lower bound is the
// number of distinct tuples already certain, the upper bound every distinct
// tuple in the group — group membership already means the tuple's η-rule
// instance was derivable at all (the engine only adds an atom to J when
// its body matched), so nothing in the group is refuted.
func propagateCount(lguard, rguard *ast.Guard, certain, total int) (satisfiable, valid bool) {
	lo := ast.NewNumber(0, certain)
	hi := ast.NewNumber(0, total)
	return guardsDecide(lguard, rguard, lo, hi)
}
