package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/internal/objsvc/service"
	coreGrpc "github.com/msto63/plankton/pkg/core/grpc"
	"github.com/msto63/plankton/pkg/core/health"
	"github.com/msto63/plankton/pkg/core/logging"
	"github.com/msto63/plankton/pkg/core/store"
	"github.com/msto63/plankton/pkg/core/version"
	"github.com/msto63/plankton/pkg/predicate"
)

// Ensure Server implements ObjectsServer
var _ ObjectsServer = (*Server)(nil)

// Server is the Objects gRPC server
type Server struct {
	service   *service.Service
	grpc      *coreGrpc.Server
	health    *health.Registry
	healthSrv *grpchealth.Server
	logger    *logging.Logger
	config    Config

	healthCtx  context.Context
	cancel     context.CancelFunc
	healthOnce sync.Once
}

// Config holds server configuration
type Config struct {
	Host             string
	Port             int
	EnableReflection bool
	HealthInterval   time.Duration
	Service          service.Config
	Logger           *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             9400,
		EnableReflection: true,
		HealthInterval:   10 * time.Second,
		Service:          service.DefaultConfig(),
	}
}

// New creates a new Objects server
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("objects-server")
	}
	if cfg.Service.Logger == nil {
		cfg.Service.Logger = logger
	}

	svc, err := service.NewService(cfg.Service)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create service").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("server.New")
	}

	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.Port
	grpcCfg.EnableReflection = cfg.EnableReflection
	grpcCfg.Logger = logger

	grpcServer := coreGrpc.NewServer(grpcCfg)

	healthRegistry := NewHealthRegistry(svc, cfg.Service.Store)

	healthSrv := grpchealth.NewServer()
	healthCtx, cancel := context.WithCancel(context.Background())

	server := &Server{
		service:   svc,
		grpc:      grpcServer,
		health:    healthRegistry,
		healthSrv: healthSrv,
		logger:    logger,
		config:    cfg,
		healthCtx: healthCtx,
		cancel:    cancel,
	}

	RegisterObjectsServer(grpcServer.GRPCServer(), server)
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), healthSrv)

	return server, nil
}

// NewHealthRegistry builds the checks the server publishes: the combinator
// namespace, the expression cache and, when it can be pinged, the store.
func NewHealthRegistry(svc *service.Service, st store.Store) *health.Registry {
	registry := health.NewRegistry("objects", version.Objects)

	registry.RegisterFunc("namespace", func(ctx context.Context) health.CheckResult {
		obj, err := svc.Namespace().Resolve("Plankton.obj")
		if err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
		}
		table, _ := obj.(*objx.Object)
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d combinators registered", objx.Count(table)),
		}
	})
	registry.RegisterFunc("predicates", func(ctx context.Context) health.CheckResult {
		stats := svc.PredicateStats()
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%v compiled expressions cached", stats["size"]),
			Details: stats,
		}
	})

	if p, ok := st.(health.Pinger); ok {
		registry.Register(health.PingCheck("store", p, 2*time.Second))
	} else {
		registry.RegisterFunc("store", func(ctx context.Context) health.CheckResult {
			return health.CheckResult{Status: health.StatusDegraded, Message: "no snapshot store configured"}
		})
	}
	return registry
}

// Merge implements ObjectsServer.Merge
func (s *Server) Merge(ctx context.Context, req *structpb.ListValue) (*structpb.Struct, error) {
	sources := make([]*objx.Object, 0, len(req.GetValues()))
	for i, v := range req.GetValues() {
		obj, ok := codec.FromValue(v).(*objx.Object)
		if !ok {
			return nil, mdwerror.Newf("source %d is not an object", i).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("server.Merge")
		}
		sources = append(sources, obj)
	}
	return codec.ToStruct(s.service.Merge(sources...))
}

// Keys implements ObjectsServer.Keys
func (s *Server) Keys(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	keys := s.service.Keys(codec.FromStruct(req))
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return toList(out)
}

// Values implements ObjectsServer.Values
func (s *Server) Values(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	return toList(s.service.Values(codec.FromStruct(req)))
}

// Count implements ObjectsServer.Count
func (s *Server) Count(ctx context.Context, req *structpb.Struct) (*wrapperspb.Int64Value, error) {
	return wrapperspb.Int64(int64(s.service.Count(codec.FromStruct(req)))), nil
}

// Any implements ObjectsServer.Any
func (s *Server) Any(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	args := codec.FromStruct(req)
	subject, err := subjectArg(args, "server.Any")
	if err != nil {
		return nil, err
	}
	by, err := byArg(args)
	if err != nil {
		return nil, err
	}

	result := s.service.Any(subject, by)
	out := objx.NewObject().Set("found", result.Found)
	if result.Found {
		switch by {
		case predicate.ByKey:
			out.Set("key", result.Key)
		case predicate.ByItem, predicate.ByPair:
			out.Set("key", result.Key).Set("value", result.Value).Set("item", result.Item)
		default:
			out.Set("value", result.Value)
		}
	}
	return codec.ToStruct(out)
}

// Filter implements ObjectsServer.Filter
func (s *Server) Filter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	args := codec.FromStruct(req)
	subject, err := subjectArg(args, "server.Filter")
	if err != nil {
		return nil, err
	}
	by, err := byArg(args)
	if err != nil {
		return nil, err
	}
	source, _ := stringArg(args, "expr")

	result, err := s.service.Filter(ctx, subject, source, by)
	if err != nil {
		return nil, err
	}
	return codec.ToStruct(result)
}

// Save implements ObjectsServer.Save
func (s *Server) Save(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	args := codec.FromStruct(req)
	subject, err := subjectArg(args, "server.Save")
	if err != nil {
		return nil, err
	}
	name, _ := stringArg(args, "name")

	snap, err := s.service.Save(ctx, name, subject)
	if err != nil {
		return nil, err
	}
	return codec.ToStruct(snapshotObject(snap.ID, snap.Name, snap.Entries, snap.CreatedAt, snap.UpdatedAt))
}

// Load implements ObjectsServer.Load
func (s *Server) Load(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	subject, err := s.service.Load(ctx, req.GetValue())
	if err != nil {
		return nil, err
	}
	return codec.ToStruct(subject)
}

// List implements ObjectsServer.List
func (s *Server) List(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	snapshots, err := s.service.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(snapshots))
	for i, snap := range snapshots {
		out[i] = snapshotObject(snap.ID, snap.Name, snap.Entries, snap.CreatedAt, snap.UpdatedAt)
	}
	return toList(out)
}

// Delete implements ObjectsServer.Delete
func (s *Server) Delete(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.service.Delete(ctx, req.GetValue()); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

// Start serves on the configured address and blocks
func (s *Server) Start() error {
	s.logger.Info("Starting Objects server", "host", s.config.Host, "port", s.config.Port)
	s.startHealth()
	return s.grpc.Start()
}

// Serve serves on lis and blocks
func (s *Server) Serve(lis net.Listener) error {
	s.startHealth()
	return s.grpc.Serve(lis)
}

// Stop stops the server and closes the service
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping Objects server")
	s.cancel()
	s.grpc.StopWithTimeout(ctx)
	return s.service.Close()
}

func (s *Server) startHealth() {
	s.healthOnce.Do(func() {
		interval := s.config.HealthInterval
		if interval <= 0 {
			interval = 10 * time.Second
		}
		go s.health.Publish(s.healthCtx, s.healthSrv, ServiceName, interval)
	})
}

// Helper functions for argument conversion

func subjectArg(args *objx.Object, op string) (*objx.Object, error) {
	v, ok := args.GetOwn("subject")
	if !ok {
		return objx.NewObject(), nil
	}
	subject, ok := v.(*objx.Object)
	if !ok {
		return nil, mdwerror.Newf("subject must be an object, got %T", v).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)
	}
	return subject, nil
}

func byArg(args *objx.Object) (predicate.By, error) {
	name, _ := stringArg(args, "by")
	return predicate.ParseBy(name)
}

func stringArg(args *objx.Object, key string) (string, bool) {
	v, _ := args.GetOwn(key)
	str, ok := v.(string)
	return str, ok
}

func toList(values []any) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(values))}
	for _, v := range values {
		pv, err := codec.ToValue(v)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, pv)
	}
	return list, nil
}

func snapshotObject(id, name string, entries int, created, updated time.Time) *objx.Object {
	return objx.NewObject().
		Set("id", id).
		Set("name", name).
		Set("entries", entries).
		Set("created_at", created).
		Set("updated_at", updated)
}
