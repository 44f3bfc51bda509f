// internal/rules/validate.go
package rules

import (
	"errors"
	"fmt"

	"github.com/solatis/seedkeeper/internal/types"
)

/*
 * Submit-time validation.
 *
 * Walks the rule tree in order and stops at the first violation:
 *   1. Disabled filter: trivially valid
 *   2. No rules: ErrNoRules
 *   3. SimpleRule missing level or item: ErrIncompleteRule
 *   4. OrGroupRule without subgroups: ErrEmptyOrGroup
 *      empty subgroup: ErrEmptySubGroup
 *      atom missing level or item: ErrIncompleteCondition
 *
 * Check returns the violation as an error wrapping one of the sentinels above
 * with its position. Validate turns it into a single user-facing notice and
 * a boolean. Neither mutates the tree.
 */

// Check returns nil if the store may be submitted, or the first violation.
func Check(s *Store) error {
	if !s.Enabled {
		return nil
	}
	if len(s.Rules) == 0 {
		return types.ErrNoRules
	}
	for i, rule := range s.Rules {
		if err := checkRule(rule); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return nil
}

func checkRule(rule types.Rule) error {
	switch r := rule.(type) {
	case *types.SimpleRule:
		if !r.Complete() {
			return types.ErrIncompleteRule
		}
		return nil
	case *types.OrGroupRule:
		if len(r.Items) == 0 {
			return types.ErrEmptyOrGroup
		}
		for j, sub := range r.Items {
			if len(sub) == 0 {
				return fmt.Errorf("subgroup %d: %w", j+1, types.ErrEmptySubGroup)
			}
			for k, atom := range sub {
				if !atom.Complete() {
					return fmt.Errorf("subgroup %d condition %d: %w", j+1, k+1, types.ErrIncompleteCondition)
				}
			}
		}
		return nil
	default:
		panic(fmt.Sprintf("rules: unhandled rule type %T", rule))
	}
}

// Validate runs Check and reports the first violation through the notifier.
// The caller must block submission on false.
func (e *Engine) Validate(s *Store) bool {
	return e.check(s) == nil
}

// check runs Check and emits the diagnostic for a violation.
func (e *Engine) check(s *Store) error {
	err := Check(s)
	if err != nil {
		e.notifier.Error(diagnostic(err))
	}
	return err
}

// diagnostic returns the user-facing message for a Check error: the
// sentinel's text without positional wrapping.
func diagnostic(err error) string {
	for _, sentinel := range []error{
		types.ErrNoRules,
		types.ErrIncompleteRule,
		types.ErrEmptyOrGroup,
		types.ErrEmptySubGroup,
		types.ErrIncompleteCondition,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
