// Package api provides the gRPC chest rule service.
//
// Messages are google.protobuf.Struct documents, so the service descriptor
// is declared here instead of generated from a .proto file. Field layout:
//
//	CheckRules   {mode, rules, predicted: [{level, item}]}
//	          -> {ok, mode, flags, items: [{level, item, display}]}
//	SyncPresets  {if_none_match}
//	          -> {etag, not_modified, presets: [{id, name, mode, rules, created_at}]}
//
// rules always uses the positional wire encoding.
package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/seedkeeper/internal/core/db"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

// Service and method names.
const (
	ServiceName           = "seedkeeper.chest.v1.ChestService"
	FullMethodCheckRules  = "/" + ServiceName + "/CheckRules"
	FullMethodSyncPresets = "/" + ServiceName + "/SyncPresets"
	serviceMetadataFile   = "seedkeeper/chest/v1/chest.proto"
	checkRulesMethodName  = "CheckRules"
	syncPresetsMethodName = "SyncPresets"
)

// ChestServer is the server API for ChestService.
type ChestServer interface {
	CheckRules(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncPresets(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ChestServiceDesc is the grpc.ServiceDesc for ChestService.
var ChestServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChestServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: checkRulesMethodName, Handler: checkRulesHandler},
		{MethodName: syncPresetsMethodName, Handler: syncPresetsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceMetadataFile,
}

// RegisterChestServer registers srv on s.
func RegisterChestServer(s grpc.ServiceRegistrar, srv ChestServer) {
	s.RegisterService(&ChestServiceDesc, srv)
}

func checkRulesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChestServer).CheckRules(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodCheckRules}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChestServer).CheckRules(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func syncPresetsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChestServer).SyncPresets(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodSyncPresets}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChestServer).SyncPresets(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Catalog resolves item names and their display form.
// Implemented by *catalog.Catalog.
type Catalog interface {
	rules.Catalog
	DisplayName(item types.ItemName) string
}

// PresetSource supplies stored presets. Implemented by *db.PresetRepository.
type PresetSource interface {
	Records(ctx context.Context) ([]db.PresetRecord, error)
	Decode(rec db.PresetRecord) (types.Preset, error)
}

// ChestService implements ChestServer.
// Thin orchestration layer delegating to rules and the preset store.
type ChestService struct {
	catalog Catalog
	presets PresetSource
	logger  *zap.Logger
}

// NewChestService creates service instance with dependencies.
func NewChestService(catalog Catalog, presets PresetSource, logger *zap.Logger) (*ChestService, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if presets == nil {
		return nil, fmt.Errorf("presets cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChestService{
		catalog: catalog,
		presets: presets,
		logger:  logger.Named("chest"),
	}, nil
}
