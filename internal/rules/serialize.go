// internal/rules/serialize.go
package rules

import (
	"encoding/json"
	"fmt"

	"github.com/solatis/seedkeeper/internal/types"
)

/*
 * Positional wire encoding consumed by the search backend.
 *
 *   SimpleRule  -> [level, item]
 *   OrGroupRule -> [[[level, item], ...], ...]   (subgroups of pairs)
 *
 * Field names are dropped at this boundary. Pair order is (level, item) and
 * must never be swapped. Serialize does not validate; callers run Check or
 * Validate first.
 */

// Pair is an atom encoded as a positional (level, item) pair.
type Pair struct {
	Level types.Level
	Item  types.ItemName
}

// MarshalJSON encodes the pair as [level, item].
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{int(p.Level), string(p.Item)})
}

// Value returns the pair as a generic []any tree.
func (p Pair) Value() []any {
	return []any{int(p.Level), string(p.Item)}
}

// EncodedRule is one top-level rule in wire form: exactly one of Atom or
// Group is meaningful, discriminated by Atom != nil.
type EncodedRule struct {
	Atom  *Pair
	Group [][]Pair
}

// MarshalJSON encodes the rule as a pair or as nested subgroup arrays.
func (e EncodedRule) MarshalJSON() ([]byte, error) {
	if e.Atom != nil {
		return json.Marshal(e.Atom)
	}
	group := e.Group
	if group == nil {
		group = [][]Pair{}
	}
	return json.Marshal(group)
}

// Value returns the rule as a generic []any tree, suitable for
// structpb.NewList or re-decoding with Decode.
func (e EncodedRule) Value() []any {
	if e.Atom != nil {
		return e.Atom.Value()
	}
	out := make([]any, len(e.Group))
	for i, sub := range e.Group {
		pairs := make([]any, len(sub))
		for j, p := range sub {
			pairs[j] = p.Value()
		}
		out[i] = pairs
	}
	return out
}

// Serialize converts rules into the positional wire encoding.
func Serialize(rules []types.Rule) []EncodedRule {
	out := make([]EncodedRule, 0, len(rules))
	for _, rule := range rules {
		switch r := rule.(type) {
		case *types.SimpleRule:
			out = append(out, EncodedRule{Atom: &Pair{Level: r.Level, Item: r.Item}})
		case *types.OrGroupRule:
			group := make([][]Pair, len(r.Items))
			for i, sub := range r.Items {
				pairs := make([]Pair, len(sub))
				for j, atom := range sub {
					pairs[j] = Pair{Level: atom.Level, Item: atom.Item}
				}
				group[i] = pairs
			}
			out = append(out, EncodedRule{Group: group})
		default:
			panic(fmt.Sprintf("rules: unhandled rule type %T", rule))
		}
	}
	return out
}

// EncodedValues converts encoded rules into a generic []any tree.
func EncodedValues(encoded []EncodedRule) []any {
	out := make([]any, len(encoded))
	for i, e := range encoded {
		out[i] = e.Value()
	}
	return out
}
