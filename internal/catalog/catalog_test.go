package catalog

import (
	"testing"

	"github.com/solatis/seedkeeper/internal/types"
)

func TestDefault_Levels(t *testing.T) {
	c := Default()
	levels := c.Levels()
	want := []types.Level{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}
	if len(levels) != len(want) {
		t.Fatalf("len(Levels()) = %d, want %d", len(levels), len(want))
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("Levels()[%d] = %d, want %d", i, levels[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	c := Default()
	tests := []struct {
		level types.Level
		item  types.ItemName
		want  bool
	}{
		{20, "Magnet Ring", true},
		{80, "Kudgel", true},
		{80, "Templar's Blade", true},
		{70, "Templar's Blade", true},
		{20, "Kudgel", false},
		{15, "Kudgel", false},
		{100, "Stardrop", true},
	}
	for _, tt := range tests {
		if got := c.Contains(tt.level, tt.item); got != tt.want {
			t.Errorf("Contains(%d, %q) = %v, want %v", tt.level, tt.item, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	c := Default()
	tests := []struct {
		in   string
		want types.ItemName
	}{
		{"Magnet Ring", "Magnet Ring"},
		{"磁铁戒指", "Magnet Ring"},
		{"长柄锤", "Kudgel"},
		{"Pirate’s Sword", "Pirate's Sword"},
		{"  Stardrop ", "Stardrop"},
		{"Unknown Thing", "Unknown Thing"},
	}
	for _, tt := range tests {
		if got := c.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	c := Default()
	if got := c.DisplayName("Kudgel"); got != "长柄锤" {
		t.Errorf("DisplayName(Kudgel) = %q, want 长柄锤", got)
	}
	if got := c.DisplayName("Slingshot"); got != "Slingshot" {
		t.Errorf("DisplayName(Slingshot) = %q, want fallback to canonical", got)
	}
	if got := c.DisplayName("Nope"); got != "Nope" {
		t.Errorf("DisplayName(Nope) = %q, want Nope", got)
	}
}
