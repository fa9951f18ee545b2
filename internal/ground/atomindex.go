package ground

import (
	"aspgrounder/internal/ast"
	"aspgrounder/internal/depgraph"
)

// sigOf is a ground or pattern predicate literal's signature, folding in
// Classical so "-p(X)" and "p(X)" never collide as the same index bucket —
// classical negation produces a genuinely distinct atom.
func sigOf(p *ast.PredLiteral) depgraph.PredSig {
	name := p.Pred
	if p.Classical {
		name = "-" + name
	}
	return depgraph.PredSig{Name: name, Arity: p.Arity()}
}

// AtomIndex is a set of ground, non-negated predicate atoms (the heads
// already derived within a grounding run), indexed by predicate signature
// for the engine's candidate enumeration and by string key for O(1) membership
// and dedup.
type AtomIndex struct {
	bySig map[depgraph.PredSig][]*ast.PredLiteral
	seen  map[string]bool
}

func NewAtomIndex() *AtomIndex {
	return &AtomIndex{bySig: map[depgraph.PredSig][]*ast.PredLiteral{}, seen: map[string]bool{}}
}

// Add inserts a ground atom, reporting whether it was new (used to detect a
// fixpoint iteration that added nothing).
func (idx *AtomIndex) Add(p *ast.PredLiteral) bool {
	key := p.String()
	if idx.seen[key] {
		return false
	}
	idx.seen[key] = true
	sig := sigOf(p)
	idx.bySig[sig] = append(idx.bySig[sig], p)
	return true
}

func (idx *AtomIndex) Contains(p *ast.PredLiteral) bool {
	return idx.seen[p.String()]
}

// Candidates returns every atom currently indexed under sig, the set a
// positive predicate literal's match enumeration ranges over.
func (idx *AtomIndex) Candidates(sig depgraph.PredSig) []*ast.PredLiteral {
	return idx.bySig[sig]
}

// Clone returns an independent copy, used to give a component its own
// working copies of the I and J sets carried in from earlier components.
func (idx *AtomIndex) Clone() *AtomIndex {
	out := NewAtomIndex()
	for k, v := range idx.seen {
		out.seen[k] = v
	}
	for sig, atoms := range idx.bySig {
		cp := make([]*ast.PredLiteral, len(atoms))
		copy(cp, atoms)
		out.bySig[sig] = cp
	}
	return out
}

// All returns every atom in the index; the order across signatures is
// unspecified and may differ between calls.
func (idx *AtomIndex) All() []*ast.PredLiteral {
	var out []*ast.PredLiteral
	for _, atoms := range idx.bySig {
		out = append(out, atoms...)
	}
	return out
}

// asPred views l as the predicate-shaped literal candidate matching treats
// uniformly: an ordinary PredLiteral as itself, an aggregate/choice
// placeholder through its AsPredLiteral view — a rewritten body never
// contains anything else predicate-shaped.
func asPred(l ast.Literal) (*ast.PredLiteral, bool) {
	switch lit := l.(type) {
	case *ast.PredLiteral:
		return lit, true
	case *ast.AggrPlaceholder:
		return lit.AsPredLiteral(), true
	case *ast.ChoicePlaceholder:
		return lit.AsPredLiteral(), true
	default:
		return nil, false
	}
}

// headAtoms returns the ground-or-not predicate-shaped atoms a statement's
// head derives, uniformly across PredLiteral and placeholder heads.
func headAtoms(s ast.Statement) []*ast.PredLiteral {
	var out []*ast.PredLiteral
	for _, l := range s.Head() {
		if p, ok := asPred(l); ok {
			out = append(out, p)
		}
	}
	return out
}
