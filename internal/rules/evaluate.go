// internal/rules/evaluate.go
package rules

import (
	"fmt"
	"sort"

	"github.com/solatis/seedkeeper/internal/types"
)

/*
 * Rule evaluation against predicted chest contents.
 *
 * A prediction maps each floor to the item its chest yields for one seed.
 * Evaluation semantics:
 *   - Atom holds iff predicted[level] == item
 *   - AND subgroup holds iff every atom holds (short-circuit on first miss)
 *   - OR group holds iff any subgroup holds (short-circuit on first hit)
 *   - ALL mode: every top-level rule holds; ANY mode: at least one
 *   - No rules: matched (an empty filter excludes nothing)
 *
 * Every top-level rule is evaluated even after the mode is decided so Flags
 * reports per-rule outcomes for diagnostics.
 */

// Prediction maps floor levels to the canonical item found there.
// A missing level means the floor has no chest.
type Prediction map[types.Level]types.ItemName

// Result contains the outcome of evaluating a rule set.
type Result struct {
	Matched bool
	Mode    types.Mode
	Flags   []bool // per top-level rule, in order
}

// Evaluate checks the rules against a prediction under mode.
func Evaluate(rules []types.Rule, mode types.Mode, predicted Prediction) Result {
	result := Result{Mode: mode, Flags: make([]bool, len(rules))}
	if len(rules) == 0 {
		result.Matched = true
		return result
	}

	anyHeld, allHeld := false, true
	for i, rule := range rules {
		ok := evaluateRule(rule, predicted)
		result.Flags[i] = ok
		anyHeld = anyHeld || ok
		allHeld = allHeld && ok
	}

	if mode == types.ModeAny {
		result.Matched = anyHeld
	} else {
		result.Matched = allHeld
	}
	return result
}

func evaluateRule(rule types.Rule, predicted Prediction) bool {
	switch r := rule.(type) {
	case *types.SimpleRule:
		return atomHolds(r.Atom, predicted)
	case *types.OrGroupRule:
		for _, sub := range r.Items {
			if subGroupHolds(sub, predicted) {
				return true
			}
		}
		return false
	default:
		panic(fmt.Sprintf("rules: unhandled rule type %T", rule))
	}
}

// subGroupHolds treats an empty subgroup as not holding; validation rejects
// empty subgroups before submission anyway.
func subGroupHolds(sub types.AndSubGroup, predicted Prediction) bool {
	if len(sub) == 0 {
		return false
	}
	for _, atom := range sub {
		if !atomHolds(atom, predicted) {
			return false
		}
	}
	return true
}

func atomHolds(atom types.Atom, predicted Prediction) bool {
	got, ok := predicted[atom.Level]
	return ok && got == atom.Item
}

// CollectLevels returns the sorted, de-duplicated floors referenced by rules.
// The backend predicts only these floors.
func CollectLevels(rules []types.Rule) []types.Level {
	seen := make(map[types.Level]struct{})
	for _, rule := range rules {
		switch r := rule.(type) {
		case *types.SimpleRule:
			seen[r.Level] = struct{}{}
		case *types.OrGroupRule:
			for _, sub := range r.Items {
				for _, atom := range sub {
					seen[atom.Level] = struct{}{}
				}
			}
		default:
			panic(fmt.Sprintf("rules: unhandled rule type %T", rule))
		}
	}
	levels := make([]types.Level, 0, len(seen))
	for l := range seen {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}
