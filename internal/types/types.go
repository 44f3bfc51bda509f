// Package types provides domain models shared across SeedKeeper components.
//
// Zero-dependency design: types.go, rules.go and errors.go use only the
// standard library so the rule model can be embedded by any client. ID
// utilities in ids.go import uuid but are isolated for selective inclusion.
package types

import (
	"fmt"
	"strings"
)

// Level is a dungeon floor tier. Zero is the unset sentinel.
type Level int

// IsSet reports whether the level has been chosen.
func (l Level) IsSet() bool {
	return l != 0
}

// ItemName is a canonical chest item name. Empty is the unset sentinel.
type ItemName string

// IsSet reports whether an item has been chosen.
func (i ItemName) IsSet() bool {
	return i != ""
}

// Mode is the combination mode applied across top-level rules.
type Mode string

const (
	// ModeAll requires every top-level rule to hold.
	ModeAll Mode = "ALL"

	// ModeAny requires at least one top-level rule to hold.
	ModeAny Mode = "ANY"
)

// ParseMode converts a case-insensitive mode string.
// Empty input defaults to ModeAll, matching the client's initial state.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(ModeAll):
		return ModeAll, nil
	case string(ModeAny):
		return ModeAny, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Resource limits enforced when decoding rules from the wire.
// The editor never produces trees beyond these in normal use; the decoder
// rejects oversized payloads before they reach evaluation.
const (
	// MaxRules limits top-level rules per request.
	MaxRules = 64

	// MaxSubGroups limits AND subgroups inside a single OR group.
	MaxSubGroups = 16

	// MaxAtomsPerSubGroup limits atoms inside a single AND subgroup.
	MaxAtomsPerSubGroup = 16

	// MaxSeedSpan caps end-start of a seed search range.
	MaxSeedSpan = 5000
)
