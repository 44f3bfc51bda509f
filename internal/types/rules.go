// internal/types/rules.go
package types

/*
 * Domain types for chest rules.
 *
 * Provides Atom, AndSubGroup, SimpleRule, OrGroupRule and the closed Rule
 * sum type used by internal/rules for editing, validation, serialization
 * and evaluation. These types are wire-format agnostic; the positional
 * array encoding lives in internal/rules.
 *
 * Key types:
 *   - Atom: leaf predicate "floor Level contains Item"
 *   - AndSubGroup: atoms that must all hold
 *   - SimpleRule: one atom as a whole top-level rule
 *   - OrGroupRule: AND subgroups, any of which suffices
 *   - Rule: *SimpleRule | *OrGroupRule
 */

// RuleKind names a Rule variant.
type RuleKind string

const (
	KindAtom    RuleKind = "atom"
	KindOrGroup RuleKind = "or_group"
)

// Atom is a leaf predicate over a single floor.
type Atom struct {
	Level Level
	Item  ItemName
}

// Complete reports whether both level and item are set.
func (a Atom) Complete() bool {
	return a.Level.IsSet() && a.Item.IsSet()
}

// AndSubGroup holds atoms that must all hold simultaneously.
type AndSubGroup []Atom

// Rule is a top-level chest rule. The unexported marker closes the set of
// variants to *SimpleRule and *OrGroupRule.
type Rule interface {
	Kind() RuleKind
	isRule()
}

// SimpleRule is a single atom at the top level of a rule set.
type SimpleRule struct {
	Atom
}

// Kind implements Rule.
func (*SimpleRule) Kind() RuleKind { return KindAtom }

func (*SimpleRule) isRule() {}

// OrGroupRule is satisfied when any AND subgroup is satisfied.
type OrGroupRule struct {
	Items []AndSubGroup
}

// Kind implements Rule.
func (*OrGroupRule) Kind() RuleKind { return KindOrGroup }

func (*OrGroupRule) isRule() {}

// Preset is a named rule template.
type Preset struct {
	ID    PresetID
	Name  string
	Mode  Mode
	Rules []Rule
}
