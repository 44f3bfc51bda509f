package api

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/core/db"
	"github.com/solatis/seedkeeper/internal/types"
)

type fakePresets struct {
	records []db.PresetRecord
	err     error
}

func (f *fakePresets) Records(ctx context.Context) ([]db.PresetRecord, error) {
	return f.records, f.err
}

func (f *fakePresets) Decode(rec db.PresetRecord) (types.Preset, error) {
	return db.NewPresetRepository(nil, catalog.Default()).Decode(rec)
}

func newTestService(t *testing.T, presets *fakePresets) *ChestService {
	t.Helper()
	if presets == nil {
		presets = &fakePresets{}
	}
	svc, err := NewChestService(catalog.Default(), presets, nil)
	if err != nil {
		t.Fatalf("NewChestService() error = %v", err)
	}
	return svc
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}
	return s
}

func TestNewChestService_NilDependencies(t *testing.T) {
	if _, err := NewChestService(nil, &fakePresets{}, nil); err == nil {
		t.Error("NewChestService(nil catalog) error = nil")
	}
	if _, err := NewChestService(catalog.Default(), nil, nil); err == nil {
		t.Error("NewChestService(nil presets) error = nil")
	}
}

func TestCheckRules(t *testing.T) {
	svc := newTestService(t, nil)
	req := mustStruct(t, map[string]any{
		"mode": "all",
		"rules": []any{
			[]any{20, "磁铁戒指"},
			[]any{[]any{[]any{80, "Kudgel"}, []any{110, "Space Boots"}}},
		},
		"predicted": []any{
			map[string]any{"level": 20, "item": "Magnet Ring"},
			map[string]any{"level": 80, "item": "Kudgel"},
			map[string]any{"level": 110, "item": "太空之靴"},
			map[string]any{"level": 50, "item": "Cutlass"},
		},
	})

	resp, err := svc.CheckRules(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckRules() error = %v", err)
	}

	got := resp.AsMap()
	want := map[string]any{
		"ok":    true,
		"mode":  "ALL",
		"flags": []any{true, true},
		"items": []any{
			map[string]any{"level": float64(20), "item": "Magnet Ring", "display": "磁铁戒指"},
			map[string]any{"level": float64(80), "item": "Kudgel", "display": "长柄锤"},
			map[string]any{"level": float64(110), "item": "Space Boots", "display": "太空之靴"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CheckRules() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRules_NoMatchInAnyMode(t *testing.T) {
	svc := newTestService(t, nil)
	req := mustStruct(t, map[string]any{
		"mode":      "ANY",
		"rules":     []any{[]any{20, "Glow Ring"}, []any{100, "Stardrop"}},
		"predicted": []any{map[string]any{"level": 20, "item": "Magnet Ring"}},
	})

	resp, err := svc.CheckRules(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckRules() error = %v", err)
	}
	if resp.GetFields()["ok"].GetBoolValue() {
		t.Error("ok = true, want false")
	}
}

func TestCheckRules_EmptyRulesMatch(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.CheckRules(context.Background(), mustStruct(t, map[string]any{}))
	if err != nil {
		t.Fatalf("CheckRules() error = %v", err)
	}
	if !resp.GetFields()["ok"].GetBoolValue() {
		t.Error("ok = false, want true for empty rules")
	}
}

func TestCheckRules_InvalidArgument(t *testing.T) {
	svc := newTestService(t, nil)
	tests := []struct {
		name string
		req  map[string]any
	}{
		{name: "bad mode", req: map[string]any{"mode": "SOME"}},
		{name: "malformed rule", req: map[string]any{"rules": []any{20}}},
		{name: "incomplete rule", req: map[string]any{"rules": []any{[]any{20, ""}}}},
		{name: "empty subgroup", req: map[string]any{"rules": []any{[]any{[]any{}}}}},
		{name: "prediction not an object", req: map[string]any{"predicted": []any{"x"}}},
		{name: "prediction bad level", req: map[string]any{"predicted": []any{map[string]any{"level": "x", "item": "Kudgel"}}}},
		{name: "prediction missing item", req: map[string]any{"predicted": []any{map[string]any{"level": 80}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CheckRules(context.Background(), mustStruct(t, tt.req))
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("code = %v, want InvalidArgument (err %v)", status.Code(err), err)
			}
		})
	}
}

func testRecords() []db.PresetRecord {
	return []db.PresetRecord{
		{ID: "0190a000-0000-7000-8000-000000000002", Name: "b", Mode: "ANY", Rules: `[[20,"Magnet Ring"]]`, CreatedAt: "2026-01-02T00:00:00Z"},
		{ID: "0190a000-0000-7000-8000-000000000001", Name: "a", Mode: "ALL", Rules: `[[[[80,"Kudgel"]]]]`, CreatedAt: "2026-01-01T00:00:00Z"},
	}
}

func TestSyncPresets(t *testing.T) {
	svc := newTestService(t, &fakePresets{records: testRecords()})

	resp, err := svc.SyncPresets(context.Background(), mustStruct(t, map[string]any{}))
	if err != nil {
		t.Fatalf("SyncPresets() error = %v", err)
	}
	got := resp.AsMap()
	if got["etag"] != computeETAG(testRecords()) {
		t.Errorf("etag = %v, want %s", got["etag"], computeETAG(testRecords()))
	}
	if got["not_modified"] != false {
		t.Errorf("not_modified = %v, want false", got["not_modified"])
	}
	presets := got["presets"].([]any)
	if len(presets) != 2 {
		t.Fatalf("len(presets) = %d, want 2", len(presets))
	}
	first := presets[0].(map[string]any)
	want := map[string]any{
		"id":         "0190a000-0000-7000-8000-000000000002",
		"name":       "b",
		"mode":       "ANY",
		"rules":      []any{[]any{float64(20), "Magnet Ring"}},
		"created_at": "2026-01-02T00:00:00Z",
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("preset mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncPresets_NotModified(t *testing.T) {
	svc := newTestService(t, &fakePresets{records: testRecords()})
	etag := computeETAG(testRecords())

	resp, err := svc.SyncPresets(context.Background(), mustStruct(t, map[string]any{"if_none_match": etag}))
	if err != nil {
		t.Fatalf("SyncPresets() error = %v", err)
	}
	fields := resp.GetFields()
	if !fields["not_modified"].GetBoolValue() {
		t.Error("not_modified = false, want true")
	}
	if n := len(fields["presets"].GetListValue().GetValues()); n != 0 {
		t.Errorf("len(presets) = %d, want 0", n)
	}
}

func TestSyncPresets_SkipsMalformed(t *testing.T) {
	records := append(testRecords(), db.PresetRecord{ID: "x", Name: "broken", Mode: "ALL", Rules: `{`, CreatedAt: "2026-01-03T00:00:00Z"})
	svc := newTestService(t, &fakePresets{records: records})

	resp, err := svc.SyncPresets(context.Background(), mustStruct(t, map[string]any{}))
	if err != nil {
		t.Fatalf("SyncPresets() error = %v", err)
	}
	if n := len(resp.GetFields()["presets"].GetListValue().GetValues()); n != 2 {
		t.Errorf("len(presets) = %d, want 2", n)
	}
}

func TestSyncPresets_StoreFailure(t *testing.T) {
	svc := newTestService(t, &fakePresets{err: errors.New("disk gone")})

	_, err := svc.SyncPresets(context.Background(), mustStruct(t, map[string]any{}))
	if status.Code(err) != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable", status.Code(err))
	}
}

func TestComputeETAG(t *testing.T) {
	recs := testRecords()
	reversed := []db.PresetRecord{recs[1], recs[0]}
	if computeETAG(recs) != computeETAG(reversed) {
		t.Error("ETag depends on record order")
	}

	changed := testRecords()
	changed[0].CreatedAt = "2026-02-01T00:00:00Z"
	if computeETAG(recs) == computeETAG(changed) {
		t.Error("ETag unchanged after created_at changed")
	}
	if computeETAG(nil) == computeETAG(recs) {
		t.Error("empty and non-empty sets share an ETag")
	}
}
