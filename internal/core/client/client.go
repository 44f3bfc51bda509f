// Package client calls a remote ChestService.
package client

import (
	"context"
	"fmt"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/seedkeeper/internal/core/api"
	"github.com/solatis/seedkeeper/internal/core/auth"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

// Client wraps a connection to ChestService.
type Client struct {
	conn    *grpc.ClientConn
	apiKey  string
	timeout time.Duration
}

// New creates a client for address. Each call is bounded by timeout.
// Extra options are appended after the default insecure transport.
func New(address, apiKey string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", address, err)
	}
	return &Client{conn: conn, apiKey: apiKey, timeout: timeout}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// CheckedItem is one predicted floor echoed back by CheckRules.
type CheckedItem struct {
	Level   types.Level    `json:"level"`
	Item    types.ItemName `json:"item"`
	Display string         `json:"display"`
}

// CheckResult is the decoded CheckRules response.
type CheckResult struct {
	OK    bool          `json:"ok"`
	Mode  types.Mode    `json:"mode"`
	Flags []bool        `json:"flags"`
	Items []CheckedItem `json:"items"`
}

// CheckRules asks the service to evaluate ruleSet against predicted.
func (c *Client) CheckRules(ctx context.Context, mode types.Mode, ruleSet []types.Rule, predicted rules.Prediction) (*CheckResult, error) {
	entries := make([]any, 0, len(predicted))
	for _, level := range sortedLevels(predicted) {
		entries = append(entries, map[string]any{
			"level": int(level),
			"item":  string(predicted[level]),
		})
	}
	req, err := structpb.NewStruct(map[string]any{
		"mode":      string(mode),
		"rules":     rules.EncodedValues(rules.Serialize(ruleSet)),
		"predicted": entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.invoke(ctx, api.FullMethodCheckRules, req, resp); err != nil {
		return nil, err
	}

	fields := resp.GetFields()
	result := &CheckResult{
		OK:   fields["ok"].GetBoolValue(),
		Mode: types.Mode(fields["mode"].GetStringValue()),
	}
	for _, f := range fields["flags"].GetListValue().GetValues() {
		result.Flags = append(result.Flags, f.GetBoolValue())
	}
	for _, v := range fields["items"].GetListValue().GetValues() {
		item := v.GetStructValue().GetFields()
		result.Items = append(result.Items, CheckedItem{
			Level:   types.Level(item["level"].GetNumberValue()),
			Item:    types.ItemName(item["item"].GetStringValue()),
			Display: item["display"].GetStringValue(),
		})
	}
	return result, nil
}

// SyncResult is the decoded SyncPresets response.
type SyncResult struct {
	ETag        string
	NotModified bool
	Presets     []types.Preset
}

// SyncPresets fetches stored presets. Pass the last ETag to skip an
// unchanged set.
func (c *Client) SyncPresets(ctx context.Context, ifNoneMatch string, catalog rules.Catalog) (*SyncResult, error) {
	req, err := structpb.NewStruct(map[string]any{"if_none_match": ifNoneMatch})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.invoke(ctx, api.FullMethodSyncPresets, req, resp); err != nil {
		return nil, err
	}

	fields := resp.GetFields()
	result := &SyncResult{
		ETag:        fields["etag"].GetStringValue(),
		NotModified: fields["not_modified"].GetBoolValue(),
	}
	for i, v := range fields["presets"].GetListValue().GetValues() {
		p := v.GetStructValue().GetFields()
		mode, err := types.ParseMode(p["mode"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i+1, err)
		}
		decoded, err := rules.Decode(p["rules"].GetListValue().AsSlice(), catalog)
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i+1, err)
		}
		result.Presets = append(result.Presets, types.Preset{
			ID:    types.PresetID(p["id"].GetStringValue()),
			Name:  p["name"].GetStringValue(),
			Mode:  mode,
			Rules: decoded,
		})
	}
	return result, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp *structpb.Struct) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, auth.MetadataKey, c.apiKey)
	}
	return c.conn.Invoke(ctx, method, req, resp)
}

func sortedLevels(predicted rules.Prediction) []types.Level {
	levels := make([]types.Level, 0, len(predicted))
	for l := range predicted {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}
