package rules

import (
	"fmt"

	"github.com/solatis/seedkeeper/internal/types"
)

// SeedRange is the block of seeds a search scans.
type SeedRange struct {
	UseLegacy bool
	Start     int
	End       int
}

// Validate checks start < end and that the span stays within MaxSeedSpan.
func (r SeedRange) Validate() error {
	if r.Start >= r.End {
		return fmt.Errorf("%w: start %d must be less than end %d", types.ErrInvalidSeedRange, r.Start, r.End)
	}
	if r.End-r.Start > types.MaxSeedSpan {
		return fmt.Errorf("%w: span %d exceeds %d", types.ErrInvalidSeedRange, r.End-r.Start, types.MaxSeedSpan)
	}
	return nil
}

// SearchRequest is the request body handed to the search transport.
// Other filters attach their own fields; this builder owns the seed range
// and the chest filter.
type SearchRequest struct {
	UseLegacy      bool          `json:"use_legacy"`
	SeedStart      int           `json:"seed_start"`
	SeedRange      int           `json:"seed_range"`
	EnableChests   bool          `json:"enable_chests"`
	ChestRulesMode types.Mode    `json:"chest_rules_mode"`
	ChestRules     []EncodedRule `json:"chest_rules"`
}

// BuildRequest validates the seed range and the chest store, then attaches
// the serialized rules verbatim. Nothing is built when validation fails.
func (e *Engine) BuildRequest(s *Store, seeds SeedRange) (*SearchRequest, error) {
	if err := seeds.Validate(); err != nil {
		e.notifier.Error(err.Error())
		return nil, err
	}
	if err := e.check(s); err != nil {
		return nil, err
	}

	req := &SearchRequest{
		UseLegacy:      seeds.UseLegacy,
		SeedStart:      seeds.Start,
		SeedRange:      seeds.End,
		EnableChests:   s.Enabled,
		ChestRulesMode: s.Mode,
		ChestRules:     []EncodedRule{},
	}
	if s.Enabled && len(s.Rules) > 0 {
		req.ChestRules = Serialize(s.Rules)
	}
	return req, nil
}
