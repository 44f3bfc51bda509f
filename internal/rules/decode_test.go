package rules

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/types"
)

func TestDecodeJSON(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name string
		data string
		want []types.Rule
	}{
		{
			name: "empty list",
			data: `[]`,
			want: []types.Rule{},
		},
		{
			name: "simple rule",
			data: `[[20,"Magnet Ring"]]`,
			want: []types.Rule{&types.SimpleRule{Atom: types.Atom{Level: 20, Item: "Magnet Ring"}}},
		},
		{
			name: "nested group",
			data: `[[[[80,"Kudgel"]],[[110,"Space Boots"],[110,"The Slammer"]]]]`,
			want: []types.Rule{&types.OrGroupRule{Items: []types.AndSubGroup{
				{{Level: 80, Item: "Kudgel"}},
				{{Level: 110, Item: "Space Boots"}, {Level: 110, Item: "The Slammer"}},
			}}},
		},
		{
			name: "bare pairs inside a group are single-atom subgroups",
			data: `[[[80,"Kudgel"],[110,"Space Boots"]]]`,
			want: []types.Rule{&types.OrGroupRule{Items: []types.AndSubGroup{
				{{Level: 80, Item: "Kudgel"}},
				{{Level: 110, Item: "Space Boots"}},
			}}},
		},
		{
			name: "chinese names normalize to canonical",
			data: `[[20,"磁铁戒指"],[[[80,"长柄锤"]]]]`,
			want: []types.Rule{
				&types.SimpleRule{Atom: types.Atom{Level: 20, Item: "Magnet Ring"}},
				&types.OrGroupRule{Items: []types.AndSubGroup{{{Level: 80, Item: "Kudgel"}}}},
			},
		},
		{
			name: "numeric string level",
			data: `[["50","Pirate’s Sword"]]`,
			want: []types.Rule{&types.SimpleRule{Atom: types.Atom{Level: 50, Item: "Pirate's Sword"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tt.data), cat)
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v, want nil", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeJSON() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "not json", data: `[[20,`, wantErr: types.ErrMalformedRule},
		{name: "not a list", data: `{"a":1}`, wantErr: types.ErrMalformedRule},
		{name: "scalar rule", data: `[20]`, wantErr: types.ErrMalformedRule},
		{name: "fractional level", data: `[[20.5,"Magnet Ring"]]`, wantErr: types.ErrMalformedRule},
		{name: "item not a string", data: `[[20,5]]`, wantErr: types.ErrCoercionFailed},
		{name: "scalar inside subgroup", data: `[[[[80,"Kudgel"],7]]]`, wantErr: types.ErrMalformedRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.data), cat)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeJSON() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_Limits(t *testing.T) {
	cat := catalog.Default()
	pair := []any{80, "Kudgel"}

	repeat := func(v any, n int) []any {
		out := make([]any, n)
		for i := range out {
			out[i] = v
		}
		return out
	}

	tests := []struct {
		name    string
		raw     []any
		wantErr error
	}{
		{
			name:    "too many rules",
			raw:     repeat(pair, types.MaxRules+1),
			wantErr: types.ErrTooManyRules,
		},
		{
			name:    "too many subgroups",
			raw:     []any{repeat([]any{pair}, types.MaxSubGroups+1)},
			wantErr: types.ErrTooManySubGroups,
		},
		{
			name:    "too many atoms",
			raw:     []any{[]any{repeat(pair, types.MaxAtomsPerSubGroup+1)}},
			wantErr: types.ErrTooManyAtoms,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw, cat)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Decode(repeat(pair, types.MaxRules), cat); err != nil {
		t.Errorf("Decode() at MaxRules error = %v, want nil", err)
	}
}

func TestCoerceLevel(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    types.Level
		wantErr bool
	}{
		{name: "float64", value: float64(80), want: 80},
		{name: "int", value: 80, want: 80},
		{name: "int64", value: int64(110), want: 110},
		{name: "json number", value: json.Number("20"), want: 20},
		{name: "padded string", value: " 30 ", want: 30},
		{name: "fraction", value: 1.5, wantErr: true},
		{name: "fractional json number", value: json.Number("1.5"), wantErr: true},
		{name: "blank string", value: "  ", wantErr: true},
		{name: "word", value: "ten", wantErr: true},
		{name: "bool", value: true, wantErr: true},
		{name: "nil", value: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceLevel(tt.value)
			if tt.wantErr {
				if !errors.Is(err, types.ErrCoercionFailed) {
					t.Errorf("CoerceLevel(%v) error = %v, want ErrCoercionFailed", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceLevel(%v) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("CoerceLevel(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

// Property-based test: decoding the serialized form reproduces the tree.
func TestDecode_PropertyRoundTrip(t *testing.T) {
	cat := catalog.Default()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("decode(serialize(rules)) == rules", prop.ForAll(
		func(shape []int) bool {
			rules := buildRules(cat, shape)

			data, err := json.Marshal(Serialize(rules))
			if err != nil {
				return false
			}
			got, err := DecodeJSON(data, cat)
			if err != nil {
				t.Logf("DecodeJSON(%s) error = %v", data, err)
				return false
			}
			return cmp.Equal(rules, got)
		},
		gen.SliceOfN(12, gen.IntRange(0, 1000)),
	))

	properties.Property("decode accepts the generic value tree", prop.ForAll(
		func(shape []int) bool {
			rules := buildRules(cat, shape)
			got, err := Decode(EncodedValues(Serialize(rules)), cat)
			return err == nil && cmp.Equal(rules, got)
		},
		gen.SliceOfN(12, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

// buildRules derives a valid rule tree from shape. Even values produce
// simple rules, odd values produce groups whose size follows the value.
func buildRules(cat *catalog.Catalog, shape []int) []types.Rule {
	levels := cat.Levels()
	atom := func(n int) types.Atom {
		level := levels[n%len(levels)]
		items := cat.ItemsForLevel(level)
		return types.Atom{Level: level, Item: items[n%len(items)]}
	}

	out := make([]types.Rule, 0, len(shape))
	for i, n := range shape {
		if n%2 == 0 {
			out = append(out, &types.SimpleRule{Atom: atom(n + i)})
			continue
		}
		group := &types.OrGroupRule{}
		for j := 0; j <= n%3; j++ {
			sub := types.AndSubGroup{}
			for k := 0; k <= (n/3+j)%3; k++ {
				sub = append(sub, atom(n+j*7+k*13))
			}
			group.Items = append(group.Items, sub)
		}
		out = append(out, group)
	}
	return out
}

func TestDecodeJSON_ErrorMentionsPosition(t *testing.T) {
	_, err := DecodeJSON([]byte(`[[20,"Magnet Ring"],[[[80,"Kudgel"],"x"]]]`), catalog.Default())
	if err == nil {
		t.Fatal("DecodeJSON() error = nil, want error")
	}
	if !strings.HasPrefix(err.Error(), "rule 2:") {
		t.Errorf("error = %q, want prefix \"rule 2:\"", err)
	}
}
