package types

import "errors"

// Sentinel errors for SeedKeeper operations.
var (
	// ErrNoRules indicates an enabled chest filter has no rules.
	ErrNoRules = errors.New("at least one rule required")

	// ErrIncompleteRule indicates a simple rule without floor or item.
	ErrIncompleteRule = errors.New("simple rule needs floor and item")

	// ErrEmptyOrGroup indicates an OR group with no AND subgroups.
	ErrEmptyOrGroup = errors.New("at least one AND subgroup required")

	// ErrEmptySubGroup indicates an AND subgroup with no conditions.
	ErrEmptySubGroup = errors.New("at least one condition required")

	// ErrIncompleteCondition indicates a grouped atom without floor or item.
	ErrIncompleteCondition = errors.New("all conditions need floor and item")

	// ErrInvalidMode indicates an unknown combination mode.
	ErrInvalidMode = errors.New("invalid combination mode")

	// ErrMalformedRule indicates a wire-encoded rule of unrecognized shape.
	ErrMalformedRule = errors.New("malformed rule encoding")

	// ErrCoercionFailed indicates a wire value could not be coerced.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrTooManyRules indicates more than MaxRules top-level rules.
	ErrTooManyRules = errors.New("too many rules")

	// ErrTooManySubGroups indicates an OR group exceeding MaxSubGroups.
	ErrTooManySubGroups = errors.New("OR group has too many subgroups")

	// ErrTooManyAtoms indicates an AND subgroup exceeding MaxAtomsPerSubGroup.
	ErrTooManyAtoms = errors.New("AND subgroup has too many conditions")

	// ErrInvalidSeedRange indicates start >= end or a span above MaxSeedSpan.
	ErrInvalidSeedRange = errors.New("invalid seed range")

	// ErrPresetNotFound indicates no preset with the given name or ID.
	ErrPresetNotFound = errors.New("preset not found")
)
