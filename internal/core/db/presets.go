package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

// PresetRecord is one row of the presets table. Rules holds the JSON wire
// encoding; CreatedAt is RFC3339 UTC.
type PresetRecord struct {
	ID        string `db:"preset_id"`
	Name      string `db:"name"`
	Mode      string `db:"mode"`
	Rules     string `db:"rules"`
	CreatedAt string `db:"created_at"`
}

// PresetRepository stores presets through named queries.
type PresetRepository struct {
	queries *Queries
	catalog rules.Catalog
	now     func() time.Time
}

// NewPresetRepository creates a repository. catalog normalizes item names
// when stored rules are decoded.
func NewPresetRepository(queries *Queries, catalog rules.Catalog) *PresetRepository {
	return &PresetRepository{
		queries: queries,
		catalog: catalog,
		now:     time.Now,
	}
}

// Save inserts the preset or replaces the one with the same name. A replaced
// preset takes the new ID and a fresh created_at so sync ETags change.
func (r *PresetRepository) Save(ctx context.Context, p types.Preset) error {
	if p.ID == "" {
		p.ID = types.NewPresetID()
	}
	encoded, err := json.Marshal(rules.Serialize(p.Rules))
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	_, err = r.queries.Exec(ctx, "upsert-preset",
		string(p.ID),
		p.Name,
		string(p.Mode),
		string(encoded),
		r.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save preset %q: %w", p.Name, err)
	}
	return nil
}

// Get returns the preset named name, or ErrPresetNotFound.
func (r *PresetRepository) Get(ctx context.Context, name string) (types.Preset, error) {
	var rec PresetRecord
	err := r.queries.Get(ctx, "get-preset-by-name", &rec, name)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Preset{}, fmt.Errorf("%w: %s", types.ErrPresetNotFound, name)
	}
	if err != nil {
		return types.Preset{}, fmt.Errorf("failed to query preset: %w", err)
	}
	return r.Decode(rec)
}

// Records returns every stored row, ordered by name.
func (r *PresetRepository) Records(ctx context.Context) ([]PresetRecord, error) {
	var recs []PresetRecord
	if err := r.queries.Select(ctx, "list-presets", &recs); err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	return recs, nil
}

// List returns every stored preset, ordered by name.
func (r *PresetRepository) List(ctx context.Context) ([]types.Preset, error) {
	recs, err := r.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Preset, 0, len(recs))
	for _, rec := range recs {
		p, err := r.Decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Delete removes the preset named name, or returns ErrPresetNotFound.
func (r *PresetRepository) Delete(ctx context.Context, name string) error {
	res, err := r.queries.Exec(ctx, "delete-preset-by-name", name)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrPresetNotFound, name)
	}
	return nil
}

// Decode converts a stored row back into a preset.
func (r *PresetRepository) Decode(rec PresetRecord) (types.Preset, error) {
	mode, err := types.ParseMode(rec.Mode)
	if err != nil {
		return types.Preset{}, fmt.Errorf("preset %q: %w", rec.Name, err)
	}
	decoded, err := rules.DecodeJSON([]byte(rec.Rules), r.catalog)
	if err != nil {
		return types.Preset{}, fmt.Errorf("preset %q: %w", rec.Name, err)
	}
	return types.Preset{
		ID:    types.PresetID(rec.ID),
		Name:  rec.Name,
		Mode:  mode,
		Rules: decoded,
	}, nil
}
