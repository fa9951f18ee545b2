package depgraph

import "sort"

// Component is one strongly connected component of the dependency graph: a
// set of node indices (into Graph.Nodes) that are mutually reachable via
// positive-or-negative edges, plus whether any edge strictly inside the
// component is a negative one (the "stratified" distinction: an SCC with
// no internal negative edge can be grounded incrementally; one that has
// one cannot and must be grounded as a single, simultaneous unit).
type Component struct {
	Nodes      []int
	Stratified bool
}

// tarjan is the textbook strongly-connected-components algorithm, run over
// the union of positive and negative edges: two rules are in the
// same component iff each is reachable from the other along some path of
// edges, regardless of polarity.
type tarjan struct {
	g        *Graph
	index    []int
	lowlink  []int
	onStack  []bool
	stack    []int
	counter  int
	comps    [][]int
}

func (t *tarjan) neighbors(v int) []int {
	seen := map[int]bool{}
	for to := range t.g.Pos[v] {
		seen[to] = true
	}
	for to := range t.g.Neg[v] {
		seen[to] = true
	}
	out := make([]int, 0, len(seen))
	for to := range seen {
		out = append(out, to)
	}
	sort.Ints(out)
	return out
}

func (t *tarjan) strongconnect(v int) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.neighbors(v) {
		if t.index[w] == -1 {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []int
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.comps = append(t.comps, comp)
	}
}

// SCCs computes the graph's strongly connected components via Tarjan's
// algorithm, each annotated with whether it is internally stratified.
func (g *Graph) SCCs() []Component {
	n := len(g.Nodes)
	t := &tarjan{
		g: g, counter: 0,
		index: make([]int, n), lowlink: make([]int, n), onStack: make([]bool, n),
	}
	for i := range t.index {
		t.index[i] = -1
	}

	for v := 0; v < n; v++ {
		if t.index[v] == -1 {
			t.strongconnect(v)
		}
	}

	out := make([]Component, len(t.comps))
	for i, comp := range t.comps {
		sort.Ints(comp)
		out[i] = Component{Nodes: comp, Stratified: isStratified(g, comp)}
	}
	return out
}

func isStratified(g *Graph, comp []int) bool {
	in := make(map[int]bool, len(comp))
	for _, v := range comp {
		in[v] = true
	}
	for _, v := range comp {
		for to := range g.Neg[v] {
			if in[to] {
				return false
			}
		}
	}
	return true
}
