// Package presets loads named chest rule templates from files and provides
// the templates shipped with the binary.
//
// Preset documents use the positional wire encoding for rules so a preset
// file and a search request carry identical rule payloads:
//
//	presets:
//	  - name: boots
//	    mode: ANY
//	    rules:
//	      - [20, Magnet Ring]
//	      - [[[80, Kudgel], [110, Space Boots]]]
package presets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

// Format identifies a preset document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// document is the on-disk shape of a preset file.
type document struct {
	Presets []entry `yaml:"presets" json:"presets"`
}

type entry struct {
	Name  string `yaml:"name" json:"name"`
	Mode  string `yaml:"mode" json:"mode"`
	Rules []any  `yaml:"rules" json:"rules"`
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported preset file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads and decodes every preset in the file at path.
func LoadFile(path string, catalog rules.Catalog) ([]types.Preset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	presets, err := Parse(data, format, catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return presets, nil
}

// Parse decodes a preset document. JSON input may carry comments and
// trailing commas.
func Parse(data []byte, format Format, catalog rules.Catalog) ([]types.Preset, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported preset format %q", format)
	}

	out := make([]types.Preset, 0, len(doc.Presets))
	seen := make(map[string]struct{}, len(doc.Presets))
	for i, e := range doc.Presets {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("preset %d: name required", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("preset %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		mode, err := types.ParseMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		decoded, err := rules.Decode(e.Rules, catalog)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if err := checkPreset(decoded); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out = append(out, types.Preset{
			ID:    types.NewPresetID(),
			Name:  name,
			Mode:  mode,
			Rules: decoded,
		})
	}
	return out, nil
}

// checkPreset applies submit-time validation to a template so an applied
// preset is always submittable.
func checkPreset(decoded []types.Rule) error {
	s := rules.NewStore()
	s.Enabled = true
	s.Rules = decoded
	return rules.Check(s)
}

// Builtin returns the templates shipped with the binary. The first entry is
// the initial filter of a fresh client.
func Builtin() []types.Preset {
	return []types.Preset{
		{
			ID:   types.NewPresetID(),
			Name: "default",
			Mode: types.ModeAll,
			Rules: []types.Rule{
				&types.SimpleRule{Atom: types.Atom{Level: 20, Item: "Magnet Ring"}},
				&types.OrGroupRule{Items: []types.AndSubGroup{
					{{Level: 80, Item: "Kudgel"}, {Level: 110, Item: "Space Boots"}},
					{{Level: 80, Item: "Firewalker Boots"}, {Level: 110, Item: "The Slammer"}},
				}},
			},
		},
		{
			ID:   types.NewPresetID(),
			Name: "stardrop",
			Mode: types.ModeAll,
			Rules: []types.Rule{
				&types.SimpleRule{Atom: types.Atom{Level: 100, Item: "Stardrop"}},
			},
		},
		{
			ID:   types.NewPresetID(),
			Name: "any-boots",
			Mode: types.ModeAny,
			Rules: []types.Rule{
				&types.SimpleRule{Atom: types.Atom{Level: 80, Item: "Firewalker Boots"}},
				&types.SimpleRule{Atom: types.Atom{Level: 80, Item: "Dark Boots"}},
				&types.SimpleRule{Atom: types.Atom{Level: 110, Item: "Space Boots"}},
			},
		},
	}
}

// Find returns the preset named name.
func Find(presets []types.Preset, name string) (types.Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return types.Preset{}, fmt.Errorf("%w: %s", types.ErrPresetNotFound, name)
}
