package ground

import (
	"sort"
	"strings"

	"aspgrounder/internal/ast"
	"aspgrounder/internal/rewrite"
)

// aggrKey groups the ground instances of one rewritten aggregate or choice
// by (ref id, ground global-variable tuple) — the propagator's unit of assembly: every
// AggrBaseRule/AggrElemRule (resp. ChoiceBaseRule/ChoiceElemRule) instance
// sharing the same ref and the same ground global tuple came from the same
// aggregate occurrence under the same outer binding.
type aggrKey struct {
	ref int
	g   string
}

func tupleKey(tt ast.TermTuple) string {
	parts := make([]string, len(tt))
	for i, t := range tt {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\x1f")
}

// groundGlobalOf slices a ground placeholder's full local++global term tuple
// down to just the global part, using the ground LocalVars length (which
// always matches the pattern's local-var count).
func groundGlobalOf(terms, local ast.TermTuple) ast.TermTuple {
	return terms[len(local):]
}

// groupElement gathers every ground element sharing one term tuple. ASP
// aggregate semantics range over the set of distinct tuples, so the bounds
// computation treats the tuple as a single entry (certain as soon as any
// variant's condition is certain), while assembly keeps every condition
// variant — the tuple counts if any of them holds.
type groupElement struct {
	variants []*ast.AggrElement
	seen     map[string]bool
	certain  bool
}

// aggrGroup accumulates one aggregate group's derived facts during a
// component's aux fixpoint: whether the base (empty-element) case derived at
// all, and its distinct tuples each classified as certain (some condition
// already holds in every model consistent with the settled (I, J)) or
// uncertain (only derivable in some models).
type aggrGroup struct {
	baseDerived bool
	globalTuple ast.TermTuple
	order       []string
	elements    map[string]*groupElement
}

func (g *aggrGroup) addElement(e *ast.AggrElement, certain bool) {
	key := tupleKey(e.Terms)
	ge := g.elements[key]
	if ge == nil {
		ge = &groupElement{seen: map[string]bool{}}
		g.order = append(g.order, key)
		g.elements[key] = ge
	}
	if variant := e.String(); !ge.seen[variant] {
		ge.seen[variant] = true
		ge.variants = append(ge.variants, e)
	}
	ge.certain = ge.certain || certain
}

// split partitions the group's distinct tuples into certain and uncertain,
// one representative element per tuple, preserving first-derived order.
func (g *aggrGroup) split() (certain, uncertain []*ast.AggrElement) {
	for _, key := range g.order {
		ge := g.elements[key]
		if ge.certain {
			certain = append(certain, ge.variants[0])
		} else {
			uncertain = append(uncertain, ge.variants[0])
		}
	}
	return certain, uncertain
}

// all returns every ground element in first-derived order, the element
// list of the assembled ground aggregate literal.
func (g *aggrGroup) all() []*ast.AggrElement {
	var out []*ast.AggrElement
	for _, key := range g.order {
		out = append(out, g.elements[key].variants...)
	}
	return out
}

type choiceGroup struct {
	baseDerived bool
	globalTuple ast.TermTuple
	body        ast.LiteralCollection
	seen        map[string]bool
	elems       []*ast.ChoiceElement
}

// collectAggrGroups buckets every AggrBaseRule/AggrElemRule instance ground
// during a component's aux fixpoint by its (ref, global tuple) key,
// classifying each element instance via the certainty test (its
// condition body evaluated against the settled certain/possible sets).
func collectAggrGroups(rows []ast.Statement, I, J *AtomIndex) map[aggrKey]*aggrGroup {
	groups := map[aggrKey]*aggrGroup{}
	get := func(ref int, global ast.TermTuple) *aggrGroup {
		k := aggrKey{ref: ref, g: tupleKey(global)}
		g := groups[k]
		if g == nil {
			g = &aggrGroup{globalTuple: global, elements: map[string]*groupElement{}}
			groups[k] = g
		}
		return g
	}
	for _, s := range rows {
		switch r := s.(type) {
		case *ast.AggrBaseRule:
			get(r.Placeholder.RefID, r.Placeholder.Terms()).baseDerived = true
		case *ast.AggrElemRule:
			global := groundGlobalOf(r.Placeholder.Terms(), r.Placeholder.LocalVars)
			g := get(r.Placeholder.RefID, global)
			g.addElement(r.Element, bodyCertain(r.Literals, I, J))
		}
	}
	return groups
}

// collectChoiceGroups is collectAggrGroups' choice counterpart. Choice
// elements need no certainty classification — a choice never refutes at
// grounding time — but they dedup by element string, since the same
// ground element may arrive through several local bindings.
func collectChoiceGroups(rows []ast.Statement) map[aggrKey]*choiceGroup {
	groups := map[aggrKey]*choiceGroup{}
	get := func(ref int, global ast.TermTuple) *choiceGroup {
		k := aggrKey{ref: ref, g: tupleKey(global)}
		g := groups[k]
		if g == nil {
			g = &choiceGroup{globalTuple: global, seen: map[string]bool{}}
			groups[k] = g
		}
		return g
	}
	for _, s := range rows {
		switch r := s.(type) {
		case *ast.ChoiceBaseRule:
			g := get(r.Placeholder.RefID, r.Placeholder.Terms())
			g.baseDerived = true
			g.body = r.Literals
		case *ast.ChoiceElemRule:
			global := groundGlobalOf(r.Placeholder.Terms(), r.Placeholder.LocalVars)
			g := get(r.Placeholder.RefID, global)
			if key := r.Element.String(); !g.seen[key] {
				g.seen[key] = true
				g.elems = append(g.elems, r.Element)
			}
		}
	}
	return groups
}

// buildGlobalSubst maps each global variable of the rewritten pattern to its
// ground value in this group, for substituting the original guards' Bound
// terms (which may reference the rule's global variables directly, e.g.
// "#sum{...} = B" with B a global variable) down to a ground comparison.
func buildGlobalSubst(pattern, ground ast.TermTuple) ast.Substitution {
	subst := ast.Identity()
	for i, t := range pattern {
		if i >= len(ground) {
			break
		}
		if v, ok := t.(*ast.Variable); ok {
			subst[v.Name] = ground[i]
		}
	}
	return subst
}

func groundGuard(g *ast.Guard, subst ast.Substitution) *ast.Guard {
	if g == nil {
		return nil
	}
	out := g.Substitute(subst)
	return &out
}

// weights extracts an aggregate element's weight (its first term, by
// ASP-Core-2 convention) as an int for SUM propagation; a non-Number weight
// (never produced by a well-formed program) contributes zero.
func weights(elems []*ast.AggrElement) []int {
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if len(e.Terms) == 0 {
			out = append(out, 0)
			continue
		}
		if n, ok := e.Terms[0].(*ast.Number); ok {
			out = append(out, n.Value)
			continue
		}
		out = append(out, 0)
	}
	return out
}

// values extracts an aggregate element's first term as a bare Term, for
// MIN/MAX propagation's total-order comparison.
func values(elems []*ast.AggrElement) []ast.Term {
	out := make([]ast.Term, 0, len(elems))
	for _, e := range elems {
		if len(e.Terms) > 0 {
			out = append(out, e.Terms[0])
		}
	}
	return out
}

// propagateAggrFunc dispatches to the propagation primitive matching fn
// , feeding it this group's certain/uncertain elements. The second
// result reports whether the guards hold under every model, not just some —
// the certainty NAF on the placeholder tests against.
func propagateAggrFunc(fn ast.AggrFunc, lg, rg *ast.Guard, certain, uncertain []*ast.AggrElement) (satisfiable, valid bool) {
	switch fn {
	case ast.AggrSum:
		return propagateSum(lg, rg, weights(certain), weights(uncertain))
	case ast.AggrMin:
		return propagateMin(lg, rg, values(certain), values(uncertain))
	case ast.AggrMax:
		return propagateMax(lg, rg, values(certain), values(uncertain))
	default: // AggrCount
		return propagateCount(lg, rg, len(certain), len(certain)+len(uncertain))
	}
}

// assembler maps each (ref, ground global tuple) to the assembled ground
// aggregate literal that assembly substitutes for the corresponding
// ground placeholder occurrence in an emitted rule. One assembler spans a
// whole grounding run: an aggregate's ε/η rules may settle in an earlier
// component than the rule owning the placeholder.
type assembler struct {
	byKey map[aggrKey]*ast.AggrLiteral
}

func newAssembler() *assembler {
	return &assembler{byKey: map[aggrKey]*ast.AggrLiteral{}}
}

// sortedKeys orders group keys by ref, then by ground tuple, so group
// resolution (and with it the output rule order) is deterministic.
func sortedKeys[G any](groups map[aggrKey]G) []aggrKey {
	keys := make([]aggrKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ref != keys[j].ref {
			return keys[i].ref < keys[j].ref
		}
		return keys[i].g < keys[j].g
	})
	return keys
}

// assemble rewrites an emitted ground statement into its solver-facing
// form: every ground AggrPlaceholder in the body is replaced by its
// assembled ground aggregate literal (preserving the placeholder's own
// polarity), and the internal arithmetic-binding literals — trivially true
// once ground — are dropped. Statements needing neither pass through
// unchanged.
func (a *assembler) assemble(s ast.Statement) ast.Statement {
	body := s.Body()
	changed := false
	newBody := make(ast.LiteralCollection, 0, len(body))
	for _, l := range body {
		switch lit := l.(type) {
		case *ast.ArithBinding:
			changed = true
		case *ast.AggrPlaceholder:
			k := aggrKey{ref: lit.RefID, g: tupleKey(groundGlobalOf(lit.Terms(), lit.LocalVars))}
			agg, ok := a.byKey[k]
			if !ok {
				newBody = append(newBody, l)
				continue
			}
			assembled := *agg
			assembled.Negated = lit.Naf()
			newBody = append(newBody, &assembled)
			changed = true
		default:
			newBody = append(newBody, l)
		}
	}
	if !changed {
		return s
	}
	return withBody(s, newBody)
}

// stripBindings drops ground arithmetic-binding literals from a body about
// to join the output program.
func stripBindings(body ast.LiteralCollection) ast.LiteralCollection {
	out := make(ast.LiteralCollection, 0, len(body))
	for _, l := range body {
		if _, ok := l.(*ast.ArithBinding); ok {
			continue
		}
		out = append(out, l)
	}
	return out
}

func withBody(s ast.Statement, body ast.LiteralCollection) ast.Statement {
	switch r := s.(type) {
	case *ast.NormalRule:
		return ast.NewNormalRule(r.ID(), r.Atom, body)
	case *ast.DisjunctiveRule:
		return ast.NewDisjunctiveRule(r.ID(), r.Atoms, body)
	case *ast.Constraint:
		return ast.NewConstraint(r.ID(), body)
	case *ast.WeakConstraint:
		return ast.NewWeakConstraint(r.ID(), body, r.Weight)
	default:
		return s
	}
}

// resolveAggrGroups decides, for every aggregate group collected this
// component, whether its guards are satisfiable, seeding the
// component's possible set with the satisfiable groups' base atoms — so the
// owning rule's placeholder occurrence matches exactly like any ordinary
// derived predicate — and the certain set with the groups whose guards hold
// in every model. Each group's ground aggregate literal is recorded in asm
// for the assembly step.
func resolveAggrGroups(arena *ast.Arena, groups map[aggrKey]*aggrGroup, aggrMap map[int]*rewrite.AggrEntry, Icomp, Jreal *AtomIndex, asm *assembler) {
	for _, k := range sortedKeys(groups) {
		g := groups[k]
		entry, ok := aggrMap[k.ref]
		if !ok {
			continue
		}
		subst := buildGlobalSubst(entry.GlobalVars, g.globalTuple)
		lg := groundGuard(entry.Orig.LGuard, subst)
		rg := groundGuard(entry.Orig.RGuard, subst)

		asm.byKey[k] = ast.NewAggrLiteral(arena.Derive(entry.Orig.ID()), entry.Orig.Func, g.all(), lg, rg, false)

		certain, uncertain := g.split()
		satisfiable, valid := propagateAggrFunc(entry.Orig.Func, lg, rg, certain, uncertain)
		if !satisfiable {
			continue
		}
		ph := ast.NewAggrPlaceholder(arena.Derive(entry.Orig.ID()), k.ref, nil, nil, g.globalTuple, false)
		atom := ph.AsPredLiteral()
		Jreal.Add(atom)
		if valid {
			Icomp.Add(atom)
		}
	}
}

// resolveChoiceGroups reconstructs one ground ChoiceRule per group whose
// base case derived (cardinality is never
// grounding-time-rejected, so every group with a satisfied body B becomes a
// ground choice), adding it directly to rules and folding its head atoms
// into the component's possible set — never the certain one, since whether
// a chosen atom holds is the solver's decision.
func resolveChoiceGroups(arena *ast.Arena, groups map[aggrKey]*choiceGroup, choiceMap map[int]*rewrite.ChoiceEntry, Jreal *AtomIndex, rules *RuleSet) error {
	for _, k := range sortedKeys(groups) {
		g := groups[k]
		if !g.baseDerived {
			continue
		}
		entry, ok := choiceMap[k.ref]
		if !ok {
			continue
		}
		subst := buildGlobalSubst(entry.GlobalVars, g.globalTuple)
		lg := groundGuard(entry.Orig.LGuard, subst)
		rg := groundGuard(entry.Orig.RGuard, subst)
		if !propagateChoice(lg, rg) {
			continue
		}
		id := arena.Derive(entry.Orig.ID())
		ground := ast.NewChoiceRule(id, ast.NewChoice(id, g.elems, lg, rg), stripBindings(g.body))
		isNew, err := rules.Add(ground)
		if err != nil {
			return err
		}
		if isNew {
			for _, atom := range headAtoms(ground) {
				Jreal.Add(atom)
			}
		}
	}
	return nil
}
