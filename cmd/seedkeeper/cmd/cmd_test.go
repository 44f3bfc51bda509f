package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

// run executes the root command with args. Flag globals survive between
// runs, so the ones tests touch are reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	encodePreset = presetFlags{name: "default"}
	encodeSeeds = rules.SeedRange{End: types.MaxSeedSpan}
	encodeRulesOnly = false
	importBuiltin = false
	listBuiltin = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEncode_RulesOnly(t *testing.T) {
	out, err := run(t, "encode", "--preset", "stardrop", "--rules-only")
	if err != nil {
		t.Fatalf("encode error = %v", err)
	}

	var got []any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := []any{[]any{float64(100), "Stardrop"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chest_rules mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Request(t *testing.T) {
	out, err := run(t, "encode", "--preset", "default", "--seed-start", "10", "--seed-end", "20", "--legacy")
	if err != nil {
		t.Fatalf("encode error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	for key, want := range map[string]any{
		"use_legacy":       true,
		"seed_start":       float64(10),
		"seed_range":       float64(20),
		"enable_chests":    true,
		"chest_rules_mode": "ALL",
	} {
		if got[key] != want {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}
	if encoded, _ := got["chest_rules"].([]any); len(encoded) != 2 {
		t.Errorf("chest_rules has %d rules, want 2", len(encoded))
	}
}

func TestEncode_InvalidSeedRange(t *testing.T) {
	_, err := run(t, "encode", "--seed-start", "20", "--seed-end", "10")
	if !errors.Is(err, types.ErrInvalidSeedRange) {
		t.Errorf("encode error = %v, want ErrInvalidSeedRange", err)
	}
}

func TestPresets_ImportShowDelete(t *testing.T) {
	dir := t.TempDir()
	dbURL := "sqlite://" + filepath.Join(dir, "sk.db")
	file := filepath.Join(dir, "presets.yaml")
	doc := `presets:
  - name: ring-only
    mode: any
    rules:
      - [20, "Magnet Ring"]
`
	if err := os.WriteFile(file, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "migrate", "up", "--db-url", dbURL); err != nil {
		t.Fatalf("migrate up error = %v", err)
	}
	if _, err := run(t, "presets", "import", file, "--db-url", dbURL); err != nil {
		t.Fatalf("presets import error = %v", err)
	}

	out, err := run(t, "presets", "list", "--db-url", dbURL)
	if err != nil {
		t.Fatalf("presets list error = %v", err)
	}
	if !strings.Contains(out, "ring-only") {
		t.Errorf("presets list output missing ring-only:\n%s", out)
	}

	out, err = run(t, "presets", "show", "ring-only", "--db-url", dbURL)
	if err != nil {
		t.Fatalf("presets show error = %v", err)
	}
	var shown struct {
		Name  string `json:"name"`
		Mode  string `json:"mode"`
		Rules []any  `json:"rules"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("show output is not JSON: %v\n%s", err, out)
	}
	if shown.Mode != "ANY" || len(shown.Rules) != 1 {
		t.Errorf("shown preset = %+v, want mode ANY with one rule", shown)
	}

	if _, err := run(t, "presets", "delete", "ring-only", "--db-url", dbURL); err != nil {
		t.Fatalf("presets delete error = %v", err)
	}
	_, err = run(t, "presets", "show", "ring-only", "--db-url", dbURL)
	if !errors.Is(err, types.ErrPresetNotFound) {
		t.Errorf("show after delete error = %v, want ErrPresetNotFound", err)
	}
}

func TestParsePrediction(t *testing.T) {
	cat := catalog.Default()

	got, err := parsePrediction([]string{"20=Magnet Ring", " 80 = Kudgel ", "20=Magnet Ring"}, cat)
	if err != nil {
		t.Fatalf("parsePrediction() error = %v", err)
	}
	want := rules.Prediction{20: "Magnet Ring", 80: "Kudgel"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prediction mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"20", "x=Kudgel", "0=Kudgel", "20="} {
		if _, err := parsePrediction([]string{bad}, cat); err == nil {
			t.Errorf("parsePrediction(%q) error = nil", bad)
		}
	}
}
