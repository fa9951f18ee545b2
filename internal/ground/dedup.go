package ground

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure"

	"aspgrounder/internal/ast"
)

// canonical is a structural, order-independent shape of a ground statement
// used for hashing: the body's literals are sorted by their
// string form so that two ground rules differing only in body literal
// order hash identically, matching the "body literals form a multiset"
// requirement. Kind keeps statement variants with coinciding head/body
// views apart (a constraint and a weak constraint over the same body are
// different statements), and Note carries the parts the head/body views
// don't expose — a weak constraint's weight annotation, a choice's guards
// and element conditions.
type canonical struct {
	Kind string
	Head []string
	Body []string
	Note string
}

func canonicalize(s ast.Statement) canonical {
	c := canonical{Kind: fmt.Sprintf("%T", s)}
	for _, l := range s.Head() {
		c.Head = append(c.Head, l.String())
	}
	for _, l := range s.Body() {
		c.Body = append(c.Body, l.String())
	}
	sort.Strings(c.Head)
	sort.Strings(c.Body)
	switch r := s.(type) {
	case *ast.WeakConstraint:
		c.Note = r.Weight.String()
	case *ast.ChoiceRule:
		c.Note = r.Choice().String()
	}
	return c
}

// RuleSet deduplicates ground statements by their canonical structural
// hash (github.com/mitchellh/hashstructure), so that grounding the same
// rule through two different selection branches that happen to produce the
// same ground instance emits it once.
type RuleSet struct {
	seen map[uint64]bool
	Rows []ast.Statement
}

func NewRuleSet() *RuleSet {
	return &RuleSet{seen: map[uint64]bool{}}
}

// Add inserts s if its canonical hash hasn't been seen, returning whether
// it was newly added.
func (rs *RuleSet) Add(s ast.Statement) (bool, error) {
	h, err := hashstructure.Hash(canonicalize(s), nil)
	if err != nil {
		return false, err
	}
	if rs.seen[h] {
		return false, nil
	}
	rs.seen[h] = true
	rs.Rows = append(rs.Rows, s)
	return true, nil
}
