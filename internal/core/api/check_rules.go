package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/seedkeeper/internal/core/auth"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

// CheckRules decodes chest rules and evaluates them against the supplied
// floor predictions. An empty rule list matches; a non-empty one must pass
// submit-time validation.
func (s *ChestService) CheckRules(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	mode, err := types.ParseMode(fields["mode"].GetStringValue())
	if err != nil {
		return nil, invalidArgument("mode", err)
	}

	decoded, err := rules.Decode(fields["rules"].GetListValue().AsSlice(), s.catalog)
	if err != nil {
		return nil, invalidArgument("rules", err)
	}
	if len(decoded) > 0 {
		store := rules.NewStore()
		store.Enabled = true
		store.Rules = decoded
		if err := rules.Check(store); err != nil {
			return nil, invalidArgument("", err)
		}
	}

	predicted, err := s.decodePrediction(fields["predicted"].GetListValue())
	if err != nil {
		return nil, invalidArgument("predicted", err)
	}

	result := rules.Evaluate(decoded, mode, predicted)
	s.logger.Debug("checked chest rules",
		zap.String("client_id", auth.ClientIDFromContext(ctx)),
		zap.Int("rules", len(decoded)),
		zap.String("mode", string(mode)),
		zap.Bool("ok", result.Matched),
	)

	flags := make([]any, len(result.Flags))
	for i, f := range result.Flags {
		flags[i] = f
	}
	// Items lists only the floors the rules reference
	var items []any
	for _, level := range rules.CollectLevels(decoded) {
		item, ok := predicted[level]
		if !ok {
			continue
		}
		items = append(items, map[string]any{
			"level":   int(level),
			"item":    string(item),
			"display": s.catalog.DisplayName(item),
		})
	}

	resp, err := structpb.NewStruct(map[string]any{
		"ok":    result.Matched,
		"mode":  string(result.Mode),
		"flags": flags,
		"items": items,
	})
	if err != nil {
		return nil, encodeFailure(err)
	}
	return resp, nil
}

// decodePrediction reads [{level, item}] entries. A later entry for the
// same level replaces an earlier one.
func (s *ChestService) decodePrediction(list *structpb.ListValue) (rules.Prediction, error) {
	predicted := make(rules.Prediction, len(list.GetValues()))
	for i, v := range list.GetValues() {
		entry := v.GetStructValue()
		if entry == nil {
			return nil, fmt.Errorf("entry %d: object expected", i+1)
		}
		level, err := rules.CoerceLevel(entry.GetFields()["level"].AsInterface())
		if err != nil {
			return nil, fmt.Errorf("entry %d: level: %w", i+1, err)
		}
		name, ok := entry.GetFields()["item"].AsInterface().(string)
		if !ok {
			return nil, fmt.Errorf("entry %d: item: %w", i+1, types.ErrCoercionFailed)
		}
		predicted[level] = s.catalog.Normalize(name)
	}
	return predicted, nil
}
