package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/notify"
	"github.com/solatis/seedkeeper/internal/types"
)

func TestReconcile(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name        string
		atom        types.Atom
		newLevel    types.Level
		wantItem    types.ItemName
		wantCleared bool
	}{
		{
			name:     "item valid on new level is kept",
			atom:     types.Atom{Level: 70, Item: "Templar's Blade"},
			newLevel: 80,
			wantItem: "Templar's Blade",
		},
		{
			name:        "item invalid on new level is cleared",
			atom:        types.Atom{Level: 20, Item: "Magnet Ring"},
			newLevel:    80,
			wantItem:    "",
			wantCleared: true,
		},
		{
			name:     "empty item stays empty without notice",
			atom:     types.Atom{Level: 20},
			newLevel: 80,
			wantItem: "",
		},
		{
			name:        "unknown level clears",
			atom:        types.Atom{Level: 80, Item: "Kudgel"},
			newLevel:    999,
			wantItem:    "",
			wantCleared: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cleared := Reconcile(tt.atom, tt.newLevel, cat)
			if got.Level != tt.newLevel {
				t.Errorf("Level = %v, want %v", got.Level, tt.newLevel)
			}
			if got.Item != tt.wantItem {
				t.Errorf("Item = %q, want %q", got.Item, tt.wantItem)
			}
			if cleared != tt.wantCleared {
				t.Errorf("cleared = %v, want %v", cleared, tt.wantCleared)
			}
		})
	}
}

func TestEngine_SetLevelNotifiesOnce(t *testing.T) {
	rec := &notify.Recorder{}
	e := NewEngine(catalog.Default(), rec)

	atom := types.Atom{Level: 20, Item: "Magnet Ring"}
	e.SetLevel(&atom, 80)
	if atom.Item != "" {
		t.Fatalf("Item = %q, want cleared", atom.Item)
	}
	if rec.Count(notify.SeverityInfo) != 1 {
		t.Fatalf("info notices = %d, want 1", rec.Count(notify.SeverityInfo))
	}
	if rec.Notices[0].Message != NoticeReselectItem {
		t.Errorf("notice = %q, want %q", rec.Notices[0].Message, NoticeReselectItem)
	}

	// Item already empty: no second notice
	e.SetLevel(&atom, 110)
	if len(rec.Notices) != 1 {
		t.Errorf("notices = %d, want 1", len(rec.Notices))
	}
}

func TestEngine_SetLevelInsideSubGroup(t *testing.T) {
	rec := &notify.Recorder{}
	e := NewEngine(catalog.Default(), rec)
	s := NewStore()
	g := s.AddOrGroupRule()

	e.SetLevel(&g.Items[0][0], 110)

	if g.Items[0][0].Level != 110 || g.Items[0][0].Item != "" {
		t.Errorf("atom = %+v, want level 110 with empty item", g.Items[0][0])
	}
	e.SetLevel(nil, 10)
	if len(rec.Notices) != 1 {
		t.Errorf("notices = %d, want 1", len(rec.Notices))
	}
}

// Property-based test: reconciliation is idempotent and never leaves an
// item the catalog does not list for the level.
func TestReconcile_PropertyIdempotent(t *testing.T) {
	cat := catalog.Default()
	levels := cat.Levels()
	var items []types.ItemName
	for _, l := range levels {
		items = append(items, cat.ItemsForLevel(l)...)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("reconcile twice equals reconcile once", prop.ForAll(
		func(fromIdx, itemIdx, toIdx int) bool {
			atom := types.Atom{Level: levels[fromIdx], Item: items[itemIdx]}
			to := levels[toIdx]

			once, _ := Reconcile(atom, to, cat)
			twice, clearedAgain := Reconcile(once, to, cat)
			if once != twice || clearedAgain {
				return false
			}
			return !once.Item.IsSet() || cat.Contains(to, once.Item)
		},
		gen.IntRange(0, len(levels)-1),
		gen.IntRange(0, len(items)-1),
		gen.IntRange(0, len(levels)-1),
	))

	properties.TestingRun(t)
}
