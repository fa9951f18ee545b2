// Package ground implements the instantiation engine and its
// aggregate/choice propagation step: given a rewritten program and
// its dependency-graph component ordering, it produces a flat ground
// program.
package ground

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"aspgrounder/internal/ast"
	"aspgrounder/internal/debugmode"
	"aspgrounder/internal/depgraph"
	aerrors "aspgrounder/internal/errors"
	"aspgrounder/internal/rewrite"
	"aspgrounder/internal/safety"
)

// Options configures one Ground call.
type Options struct {
	// MaxGroundRules aborts grounding once the accumulated ground program
	// would exceed this many statements. Zero means unlimited.
	MaxGroundRules int
}

// Ground is the grounder's single public entry point. It runs, in order:
// arithmetic hoisting, safety characterization, aggregate/choice
// rewriting, dependency-graph component ordering, and the instantiation
// engine with propagation, returning the resulting flat ground program.
//
// Across components the engine carries two monotone atom sets: I, the
// certainly-true atoms (facts and heads derivable through certain bodies),
// and J, the possibly-true atoms. Positive body literals match candidates
// from J; NAF literals refute against I.
func Ground(ctx context.Context, program *ast.Program, opts Options) (gp *ast.GroundProgram, err error) {
	// programmer errors inside the algebra (Precedes on a non-ground term,
	// arithmetic over non-numbers) surface as panics; convert them to the
	// typed error union rather than crash the embedding process.
	defer func() {
		if r := recover(); r != nil {
			kind := aerrors.InternalInvariant
			if strings.Contains(fmt.Sprint(r), "precedes is undefined") {
				kind = aerrors.UndefinedOrdering
			}
			gp = nil
			err = aerrors.New(kind, ast.Position{}, "%v", r)
		}
	}()

	runID := uuid.New()
	span, ctx := opentracing.StartSpanFromContext(ctx, "Ground")
	defer span.Finish()
	span.SetTag("run_id", runID.String())

	log := logrus.WithField("run_id", runID.String())
	if debugmode.Enabled() {
		log.WithField("statements", len(program.Statements)).Debug("grounding started")
	}

	arena := program.Arena
	if arena == nil {
		arena = ast.NewArena()
	}

	hoisted := make([]ast.Statement, len(program.Statements))
	for i, s := range program.Statements {
		hoisted[i] = ast.ReplaceArithStatement(arena, s)
	}

	if err := checkSafety(arena, hoisted); err != nil {
		return nil, err
	}

	rewritten, err := rewrite.Rewrite(arena, hoisted)
	if err != nil {
		return nil, err
	}

	// Second hoisting pass: the synthesized ε/η rules carry the aggregate
	// elements' condition literals, whose argument arithmetic the first
	// pass never saw (it only walks top-level bodies). ReplaceArith is
	// idempotent, so already-hoisted statements pass through unchanged.
	for i, s := range rewritten.Statements {
		rewritten.Statements[i] = ast.ReplaceArithStatement(arena, s)
	}

	var optimize []*ast.OptimizeStatement
	coreStmts := make([]ast.Statement, 0, len(rewritten.Statements))
	for _, s := range rewritten.Statements {
		if o, ok := s.(*ast.OptimizeStatement); ok {
			optimize = append(optimize, o)
			continue
		}
		coreStmts = append(coreStmts, s)
	}

	g := depgraph.Build(coreStmts)
	seq := depgraph.RefinedSequence(g)

	rules := NewRuleSet()
	I := NewAtomIndex()
	J := NewAtomIndex()
	asm := newAssembler()

	for ci, comp := range seq.Components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cspan, _ := opentracing.StartSpanFromContext(ctx, "component")
		cspan.SetTag("index", ci)
		cspan.SetTag("stratified", comp.Stratified)

		stmts := make([]ast.Statement, len(comp.Nodes))
		for i, n := range comp.Nodes {
			stmts[i] = g.Nodes[n]
		}

		if debugmode.Enabled() {
			log.WithField("component", ci).WithField("stratified", comp.Stratified).
				WithField("size", len(stmts)).Debug("grounding component")
		}

		nextI, nextJ, err := groundComponent(ctx, arena, stmts, I, J, rules, rewritten.AggrMap, rewritten.ChoiceMap, asm)
		cspan.Finish()
		if err != nil {
			return nil, err
		}
		I, J = nextI, nextJ

		if opts.MaxGroundRules > 0 && len(rules.Rows) > opts.MaxGroundRules {
			return nil, aerrors.New(aerrors.InternalInvariant, ast.Position{}, "ground program exceeded %d statements", opts.MaxGroundRules)
		}
	}

	optStmts, err := groundOptimize(arena, optimize, I, J)
	if err != nil {
		return nil, err
	}

	out := append([]ast.Statement{}, rules.Rows...)
	out = append(out, optStmts...)

	if debugmode.Enabled() {
		log.WithField("ground_statements", len(out)).Debug("grounding finished")
	}

	return ast.NewGroundProgram(out), nil
}

// checkSafety runs safety characterization over every statement, batching every UnsafeStatement
// failure into a single multierror rather than aborting at the first one, so
// a caller sees every unsafe rule from one Ground call at once.
func checkSafety(arena *ast.Arena, stmts []ast.Statement) error {
	var result *multierror.Error
	for _, s := range stmts {
		global := ast.GlobalVars(s)
		if !safety.Safe(s.Body(), global) {
			result = multierror.Append(result, aerrors.
				New(aerrors.UnsafeStatement, arena.Pos(s.ID()), "rule is not safe: %s", s).
				WithRule(s))
		}
	}
	return result.ErrorOrNil()
}

// groundOptimize enumerates every ground instance of each #minimize/
// #maximize element's condition against the final settled sets
// (optimization statements never join the dependency graph, since they
// derive nothing other rules can depend on), producing one ground
// OptimizeStatement per original with every matching element expanded.
func groundOptimize(arena *ast.Arena, stmts []*ast.OptimizeStatement, I, J *AtomIndex) ([]ast.Statement, error) {
	var out []ast.Statement
	for _, o := range stmts {
		var elems []*ast.AggrElement
		for _, e := range o.Elements {
			body := e.Literals
			remaining := make([]int, len(body))
			for i := range body {
				remaining[i] = i
			}
			placeholder := ast.NewConstraint(e.ID(), body)
			err := groundBody(arena, placeholder, body, ast.Identity(), remaining, I, J, func(subst ast.Substitution) error {
				elems = append(elems, e.Substitute(subst))
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		out = append(out, ast.NewOptimizeStatement(o.ID(), o.Kind, elems))
	}
	return out, nil
}
