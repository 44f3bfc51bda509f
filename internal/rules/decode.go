// internal/rules/decode.go
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/solatis/seedkeeper/internal/types"
)

/*
 * Decoding of the positional wire encoding.
 *
 * Inverse of Serialize, used by the backend service and preset loaders.
 * Input arrives as generic []any trees (encoding/json, structpb.AsSlice,
 * yaml.v3), so levels show up as float64, int, int64, json.Number or even
 * numeric strings. Items are strings in either language and are normalized
 * to canonical names through the catalog.
 *
 * Shape detection:
 *   - an element whose first value is numeric is an atom pair
 *   - any other array is an OR group whose elements are AND subgroups
 *   - inside a group, a bare pair counts as a one-atom subgroup
 *
 * Resource limits (MaxRules, MaxSubGroups, MaxAtomsPerSubGroup) are enforced
 * here so oversized payloads never reach evaluation.
 */

// Decode converts a wire-encoded rule list into a rule tree.
func Decode(raw []any, catalog Catalog) ([]types.Rule, error) {
	if len(raw) > types.MaxRules {
		return nil, types.ErrTooManyRules
	}
	out := make([]types.Rule, 0, len(raw))
	for i, elem := range raw {
		rule, err := decodeRule(elem, catalog)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

// DecodeJSON decodes a JSON-encoded rule list.
func DecodeJSON(data []byte, catalog Catalog) ([]types.Rule, error) {
	var raw []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedRule, err)
	}
	return Decode(raw, catalog)
}

func decodeRule(elem any, catalog Catalog) (types.Rule, error) {
	list, ok := asList(elem)
	if !ok {
		return nil, types.ErrMalformedRule
	}
	if isPair(list) {
		atom, err := decodePair(list, catalog)
		if err != nil {
			return nil, err
		}
		return &types.SimpleRule{Atom: atom}, nil
	}

	if len(list) > types.MaxSubGroups {
		return nil, types.ErrTooManySubGroups
	}
	group := &types.OrGroupRule{Items: make([]types.AndSubGroup, 0, len(list))}
	for j, subElem := range list {
		sub, err := decodeSubGroup(subElem, catalog)
		if err != nil {
			return nil, fmt.Errorf("subgroup %d: %w", j+1, err)
		}
		group.Items = append(group.Items, sub)
	}
	return group, nil
}

func decodeSubGroup(elem any, catalog Catalog) (types.AndSubGroup, error) {
	list, ok := asList(elem)
	if !ok {
		return nil, types.ErrMalformedRule
	}
	if isPair(list) {
		atom, err := decodePair(list, catalog)
		if err != nil {
			return nil, err
		}
		return types.AndSubGroup{atom}, nil
	}
	if len(list) > types.MaxAtomsPerSubGroup {
		return nil, types.ErrTooManyAtoms
	}
	sub := make(types.AndSubGroup, 0, len(list))
	for k, atomElem := range list {
		pair, ok := asList(atomElem)
		if !ok || !isPair(pair) {
			return nil, fmt.Errorf("condition %d: %w", k+1, types.ErrMalformedRule)
		}
		atom, err := decodePair(pair, catalog)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", k+1, err)
		}
		sub = append(sub, atom)
	}
	return sub, nil
}

func decodePair(pair []any, catalog Catalog) (types.Atom, error) {
	level, err := CoerceLevel(pair[0])
	if err != nil {
		return types.Atom{}, err
	}
	name, ok := pair[1].(string)
	if !ok {
		return types.Atom{}, types.ErrCoercionFailed
	}
	return types.Atom{Level: level, Item: catalog.Normalize(name)}, nil
}

// isPair reports whether list looks like [level, item].
func isPair(list []any) bool {
	if len(list) != 2 {
		return false
	}
	_, err := CoerceLevel(list[0])
	if err != nil {
		return false
	}
	_, isList := asList(list[1])
	return !isList
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	default:
		return nil, false
	}
}

// CoerceLevel converts a decoded wire value to a Level.
// Accepts integral float64, int, int64, json.Number and numeric strings.
// Rejects booleans, fractions and everything else with ErrCoercionFailed.
func CoerceLevel(value any) (types.Level, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, types.ErrCoercionFailed
		}
		return types.Level(v), nil
	case int:
		return types.Level(v), nil
	case int64:
		return types.Level(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, types.ErrCoercionFailed
		}
		return types.Level(n), nil
	case string:
		// Whitespace-only strings are not valid numbers
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, types.ErrCoercionFailed
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, types.ErrCoercionFailed
		}
		return types.Level(n), nil
	default:
		return 0, types.ErrCoercionFailed
	}
}
