// Package depgraph builds the predicate dependency graph over a rewritten
// program, decomposes it into strongly connected components with
// Tarjan's algorithm, and orders those components into the refined
// instantiation sequence the instantiation engine (internal/ground)
// consumes one component at a time.
package depgraph

import (
	"fmt"
	"sort"

	"aspgrounder/internal/ast"
)

// PredSig is a predicate's signature: name plus arity, since two predicates
// of the same name but different arity never unify (pos/neg edges key
// on this pair, not name alone, mirroring PredLiteral.Arity's doc comment).
type PredSig struct {
	Name  string
	Arity int
}

func (p PredSig) String() string { return fmt.Sprintf("%s/%d", p.Name, p.Arity) }

// Graph is the dependency graph over a fixed slice of statements: Nodes[i]
// is statement i, and an edge i -> j (recorded in Pos or Neg) means
// statement i's body depends on statement j's head, positively or under
// negation as failure.
type Graph struct {
	Nodes []ast.Statement
	Pos   map[int]map[int]bool
	Neg   map[int]map[int]bool
}

// Build constructs the predicate dependency graph: for every
// ordered pair of distinct statements (depender, dependee), an edge is
// added when the dependee's head predicates intersect the depender's
// positive (resp. negative) body occurrences.
func Build(stmts []ast.Statement) *Graph {
	g := &Graph{Nodes: stmts, Pos: map[int]map[int]bool{}, Neg: map[int]map[int]bool{}}

	headPreds := make([]map[PredSig]bool, len(stmts))
	posOcc := make([]map[PredSig]bool, len(stmts))
	negOcc := make([]map[PredSig]bool, len(stmts))
	headRefs := make([]int, len(stmts))
	bodyRefs := make([]map[int]bool, len(stmts))
	for i, s := range stmts {
		headPreds[i] = predSet(headPredicates(s))
		posOcc[i] = predSet(PosOcc(s.Body()))
		negOcc[i] = predSet(NegOcc(s.Body()))
		headRefs[i] = headRefOf(s)
		bodyRefs[i] = bodyRefsOf(s.Body())
	}

	for depender := range stmts {
		for dependee := range stmts {
			if depender == dependee {
				continue
			}
			if intersects(headPreds[dependee], posOcc[depender]) {
				addEdge(g.Pos, depender, dependee)
			}
			if intersects(headPreds[dependee], negOcc[depender]) {
				addEdge(g.Neg, depender, dependee)
			}
			if headRefs[dependee] >= 0 {
				// A rule whose body references an aggregate/choice ref
				// depends on every ε/η rule synthesized for that ref — the
				// base-placeholder predicate alone would only link it to
				// the ε rule, but propagation needs the η instances
				// settled too. ε/η rules of one ref also depend on each
				// other (both directions), forcing them into a single
				// component so one propagation pass sees every instance.
				if bodyRefs[depender][headRefs[dependee]] || headRefs[depender] == headRefs[dependee] {
					addEdge(g.Pos, depender, dependee)
				}
			}
		}
	}

	return g
}

// headRefOf returns the aggregate/choice ref id a synthesized ε/η rule
// belongs to, or -1 for ordinary statements.
func headRefOf(s ast.Statement) int {
	switch r := s.(type) {
	case *ast.AggrBaseRule:
		return r.Placeholder.RefID
	case *ast.AggrElemRule:
		return r.Placeholder.RefID
	case *ast.ChoiceBaseRule:
		return r.Placeholder.RefID
	case *ast.ChoiceElemRule:
		return r.Placeholder.RefID
	default:
		return -1
	}
}

// bodyRefsOf collects the ref ids of every placeholder occurring in a body,
// either polarity.
func bodyRefsOf(body ast.LiteralCollection) map[int]bool {
	out := map[int]bool{}
	for _, l := range body {
		if ph, ok := l.(*ast.AggrPlaceholder); ok {
			out[ph.RefID] = true
		}
	}
	return out
}

func addEdge(edges map[int]map[int]bool, from, to int) {
	if edges[from] == nil {
		edges[from] = map[int]bool{}
	}
	edges[from][to] = true
}

func intersects(a, b map[PredSig]bool) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for p := range small {
		if big[p] {
			return true
		}
	}
	return false
}

func predSet(sigs []PredSig) map[PredSig]bool {
	out := make(map[PredSig]bool, len(sigs))
	for _, s := range sigs {
		out[s] = true
	}
	return out
}

// headPredicates returns the predicate signatures a statement's head
// derives. A Constraint/WeakConstraint/OptimizeStatement's empty head
// derives nothing.
func headPredicates(s ast.Statement) []PredSig {
	var out []PredSig
	for _, l := range s.Head() {
		if p, ok := l.(*ast.PredLiteral); ok {
			out = append(out, PredSig{Name: p.Pred, Arity: p.Arity()})
		}
	}
	return out
}

// PosOcc computes a literal collection's positive predicate occurrences
// of a body: an ordinary predicate literal contributes itself iff not negated;
// a placeholder (ε/η rule reference, post-rewrite) behaves identically; an
// aggregate encountered directly (pre-rewrite, or defensively if rewrite
// somehow left one in place) contributes the union of its elements' body
// positive occurrences; built-ins contribute nothing.
func PosOcc(body ast.LiteralCollection) []PredSig {
	var out []PredSig
	for _, l := range body {
		out = append(out, posOccOne(l)...)
	}
	return out
}

// NegOcc is PosOcc's negative counterpart: an ordinary/placeholder literal
// contributes itself iff negated; an aggregate contributes the union of its
// elements' negative occurrences, whatever its function (no aggregate is
// treated as monotone, since element weights are not known until
// grounding).
func NegOcc(body ast.LiteralCollection) []PredSig {
	var out []PredSig
	for _, l := range body {
		out = append(out, negOccOne(l)...)
	}
	return out
}

func posOccOne(l ast.Literal) []PredSig {
	switch lit := l.(type) {
	case *ast.PredLiteral:
		if lit.Naf() {
			return nil
		}
		return []PredSig{{Name: lit.Pred, Arity: lit.Arity()}}
	case *ast.AggrPlaceholder:
		if lit.Naf() {
			return nil
		}
		return []PredSig{{Name: lit.Name(), Arity: len(lit.Terms())}}
	case *ast.ChoicePlaceholder:
		return []PredSig{{Name: lit.Name(), Arity: len(lit.Terms())}}
	case *ast.AggrLiteral:
		var out []PredSig
		for _, e := range lit.Elements {
			out = append(out, PosOcc(e.Literals)...)
		}
		return out
	default:
		return nil
	}
}

func negOccOne(l ast.Literal) []PredSig {
	switch lit := l.(type) {
	case *ast.PredLiteral:
		if !lit.Naf() {
			return nil
		}
		return []PredSig{{Name: lit.Pred, Arity: lit.Arity()}}
	case *ast.AggrPlaceholder:
		if !lit.Naf() {
			return nil
		}
		return []PredSig{{Name: lit.Name(), Arity: len(lit.Terms())}}
	case *ast.AggrLiteral:
		var out []PredSig
		for _, e := range lit.Elements {
			out = append(out, NegOcc(e.Literals)...)
		}
		return out
	default:
		return nil
	}
}

// Edges lists every (depender, dependee) pair, positive or negative, sorted
// for deterministic iteration.
func (g *Graph) Edges() [][2]int {
	seen := map[[2]int]bool{}
	for from, tos := range g.Pos {
		for to := range tos {
			seen[[2]int{from, to}] = true
		}
	}
	for from, tos := range g.Neg {
		for to := range tos {
			seen[[2]int{from, to}] = true
		}
	}
	out := make([][2]int, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
