package ground

import "aspgrounder/internal/ast"

// propagateSum bounds a SUM aggregate's achievable value, with positive and negative
// weights accumulated separately (DESIGN.md's resolution of the open
// question on signed weights): certain tuples' weights always count; an
// uncertain tuple can only move the achievable sum towards its own sign,
// so the optimistic lower bound adds every uncertain negative weight and
// the optimistic upper bound adds every uncertain positive weight.
func propagateSum(lguard, rguard *ast.Guard, certainWeights, uncertainWeights []int) (satisfiable, valid bool) {
	certainSum := 0
	for _, w := range certainWeights {
		certainSum += w
	}
	posUncertain, negUncertain := 0, 0
	for _, w := range uncertainWeights {
		if w > 0 {
			posUncertain += w
		} else {
			negUncertain += w
		}
	}
	lo := ast.NewNumber(0, certainSum+negUncertain)
	hi := ast.NewNumber(0, certainSum+posUncertain)
	return guardsDecide(lguard, rguard, lo, hi)
}
