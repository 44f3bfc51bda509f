package api

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/seedkeeper/internal/core/db"
	"github.com/solatis/seedkeeper/internal/rules"
)

// SyncPresets returns every stored preset with the set's ETag. When the
// request's if_none_match equals the current ETag only the ETag is sent and
// not_modified is true.
func (s *ChestService) SyncPresets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	records, err := s.presets.Records(ctx)
	if err != nil {
		return nil, unavailable("query presets", err)
	}

	etag := computeETAG(records)
	if match := req.GetFields()["if_none_match"].GetStringValue(); match != "" && match == etag {
		return structpb.NewStruct(map[string]any{
			"etag":         etag,
			"not_modified": true,
			"presets":      []any{},
		})
	}

	presets := make([]any, 0, len(records))
	for _, rec := range records {
		p, err := s.presets.Decode(rec)
		if err != nil {
			// Skip malformed preset - continue processing others
			s.logger.Warn("skipping malformed preset", zap.String("name", rec.Name), zap.Error(err))
			continue
		}
		presets = append(presets, map[string]any{
			"id":         string(p.ID),
			"name":       p.Name,
			"mode":       string(p.Mode),
			"rules":      rules.EncodedValues(rules.Serialize(p.Rules)),
			"created_at": rec.CreatedAt,
		})
	}

	resp, err := structpb.NewStruct(map[string]any{
		"etag":         etag,
		"not_modified": false,
		"presets":      presets,
	})
	if err != nil {
		return nil, encodeFailure(err)
	}
	return resp, nil
}

// computeETAG generates content-addressable hash enabling bandwidth-efficient sync.
// SHA256 over sorted preset_id:created_at pairs; replacing a preset changes both.
func computeETAG(records []db.PresetRecord) string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID+":"+r.CreatedAt)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
