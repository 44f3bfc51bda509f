package rules

import (
	"fmt"

	"github.com/solatis/seedkeeper/internal/types"
)

// ApplyPreset replaces the store's mode and rules with a deep copy of the
// preset, so later edits to the live tree never reach the template.
func (e *Engine) ApplyPreset(s *Store, preset types.Preset) {
	s.Mode = preset.Mode
	s.Rules = CloneRules(preset.Rules)
	s.changed()
	e.notifier.Success(fmt.Sprintf("applied preset: %s", preset.Name))
}

// CloneRules returns a structural copy of rules sharing no mutable state
// with the input.
func CloneRules(rules []types.Rule) []types.Rule {
	if rules == nil {
		return nil
	}
	out := make([]types.Rule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, cloneRule(rule))
	}
	return out
}

func cloneRule(rule types.Rule) types.Rule {
	switch r := rule.(type) {
	case *types.SimpleRule:
		c := *r
		return &c
	case *types.OrGroupRule:
		items := make([]types.AndSubGroup, len(r.Items))
		for i, sub := range r.Items {
			items[i] = append(types.AndSubGroup(nil), sub...)
		}
		return &types.OrGroupRule{Items: items}
	default:
		panic(fmt.Sprintf("rules: unhandled rule type %T", rule))
	}
}

// ClonePreset returns a deep copy of preset.
func ClonePreset(preset types.Preset) types.Preset {
	preset.Rules = CloneRules(preset.Rules)
	return preset
}
