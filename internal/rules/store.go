// internal/rules/store.go
package rules

import "github.com/solatis/seedkeeper/internal/types"

/*
 * Rule store and structural editor.
 *
 * Store owns the ordered top-level rules, the combination mode and the
 * enabled flag. Editor operations are Store methods so every successful
 * mutation can fire the change hook a UI layer attaches.
 *
 * Editor contract:
 *   - Total: operations never return errors. Guard failures are silent no-ops.
 *   - An OR group never loses its last AND subgroup through the editor.
 *   - An AND subgroup never loses its last atom through the editor.
 *   - Out-of-range indices are no-ops, same as invariant guards.
 *
 * Single-threaded: a Store belongs to one filter panel and is mutated from
 * one event at a time. No locking.
 */

// Default atoms for new rules.
var (
	DefaultSimpleAtom = types.Atom{Level: 20, Item: "Magnet Ring"}
	DefaultGroupAtom  = types.Atom{Level: 80, Item: "Kudgel"}
)

// Store is the chest filter state for one panel.
type Store struct {
	Rules   []types.Rule
	Mode    types.Mode
	Enabled bool

	onChange func()
}

// NewStore creates an empty, disabled store in ALL mode.
func NewStore() *Store {
	return &Store{Mode: types.ModeAll}
}

// SetChangeHook registers fn to run after every successful mutation.
// Pass nil to detach.
func (s *Store) SetChangeHook(fn func()) {
	s.onChange = fn
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// AddSimpleRule appends a SimpleRule with the default atom.
func (s *Store) AddSimpleRule() *types.SimpleRule {
	r := &types.SimpleRule{Atom: DefaultSimpleAtom}
	s.Rules = append(s.Rules, r)
	s.changed()
	return r
}

// AddOrGroupRule appends an OR group with one subgroup holding one default atom.
func (s *Store) AddOrGroupRule() *types.OrGroupRule {
	r := &types.OrGroupRule{Items: []types.AndSubGroup{newSubGroup()}}
	s.Rules = append(s.Rules, r)
	s.changed()
	return r
}

// RemoveRule removes Rules[index]. Out-of-range indices are ignored.
func (s *Store) RemoveRule(index int) {
	if index < 0 || index >= len(s.Rules) {
		return
	}
	s.Rules = append(s.Rules[:index], s.Rules[index+1:]...)
	s.changed()
}

// AddAndSubGroup appends a subgroup with one default atom. No-op unless
// rule is an OR group.
func (s *Store) AddAndSubGroup(rule types.Rule) {
	group, ok := rule.(*types.OrGroupRule)
	if !ok || group == nil {
		return
	}
	group.Items = append(group.Items, newSubGroup())
	s.changed()
}

// RemoveAndSubGroup removes group.Items[subIndex] unless it is the last one.
// No-op unless rule is an OR group.
func (s *Store) RemoveAndSubGroup(rule types.Rule, subIndex int) {
	group, ok := rule.(*types.OrGroupRule)
	if !ok || group == nil {
		return
	}
	if len(group.Items) <= 1 || subIndex < 0 || subIndex >= len(group.Items) {
		return
	}
	group.Items = append(group.Items[:subIndex], group.Items[subIndex+1:]...)
	s.changed()
}

// AddAtomToSubGroup appends a default atom to sub.
func (s *Store) AddAtomToSubGroup(sub *types.AndSubGroup) {
	if sub == nil {
		return
	}
	*sub = append(*sub, DefaultGroupAtom)
	s.changed()
}

// RemoveAtomFromSubGroup removes (*sub)[atomIndex] unless it is the last atom.
func (s *Store) RemoveAtomFromSubGroup(sub *types.AndSubGroup, atomIndex int) {
	if sub == nil || len(*sub) <= 1 || atomIndex < 0 || atomIndex >= len(*sub) {
		return
	}
	*sub = append((*sub)[:atomIndex], (*sub)[atomIndex+1:]...)
	s.changed()
}

// Reset drops every rule. Mode and Enabled are kept.
func (s *Store) Reset() {
	s.Rules = nil
	s.changed()
}

func newSubGroup() types.AndSubGroup {
	return types.AndSubGroup{DefaultGroupAtom}
}
