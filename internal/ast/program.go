package ast

import "strings"

// Query is the optional trailing query of a program: a single atom the
// embedding application asks of the answer sets. The grounder itself does
// not evaluate queries; it carries the atom through for the solver side.
type Query struct {
	Atom *PredLiteral
}

func (q *Query) String() string { return q.Atom.String() + "?" }

// Program is a parsed (possibly non-ground) ASP-Core-2 program.
type Program struct {
	Name       string
	Statements []Statement
	Query      *Query
	Arena      *Arena
}

func NewProgram(name string, statements []Statement, arena *Arena) *Program {
	return &Program{Name: name, Statements: statements, Arena: arena}
}

func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// GroundProgram is the result of grounding: a flat set of ground
// statements (facts, normal/disjunctive/choice rules, constraints, weak
// constraints and optimize statements — synthesized epsilon/eta rules are
// resolved away by internal/ground's propagation stage before this point)
// ready to be handed to a solver.
type GroundProgram struct {
	Statements []Statement
}

func NewGroundProgram(statements []Statement) *GroundProgram {
	return &GroundProgram{Statements: statements}
}

func (p *GroundProgram) String() string {
	parts := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// Len is the number of ground statements, reported by the CLI after a
// successful run.
func (p *GroundProgram) Len() int { return len(p.Statements) }
