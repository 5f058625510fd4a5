package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "plankton.v1.Objects"

// ObjectsServer is the server API of plankton.v1.Objects. Messages are
// protobuf well-known types, so no generated code is needed.
type ObjectsServer interface {
	// Merge takes a list of structs and returns their merge
	Merge(context.Context, *structpb.ListValue) (*structpb.Struct, error)
	Keys(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	Values(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	Count(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	// Any takes {subject, by} and returns {found, key, value, item}
	Any(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Filter takes {subject, expr, by} and returns the selected entries
	Filter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Save takes {name, subject} and returns the snapshot description
	Save(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Load(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	List(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

// ObjectsServiceDesc describes plankton.v1.Objects for grpc.Server
var ObjectsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ObjectsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Merge", ObjectsServer.Merge),
		unary("Keys", ObjectsServer.Keys),
		unary("Values", ObjectsServer.Values),
		unary("Count", ObjectsServer.Count),
		unary("Any", ObjectsServer.Any),
		unary("Filter", ObjectsServer.Filter),
		unary("Save", ObjectsServer.Save),
		unary("Load", ObjectsServer.Load),
		unary("List", ObjectsServer.List),
		unary("Delete", ObjectsServer.Delete),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "plankton/v1/objects.proto",
}

// RegisterObjectsServer registers impl on s
func RegisterObjectsServer(s grpc.ServiceRegistrar, impl ObjectsServer) {
	s.RegisterService(&ObjectsServiceDesc, impl)
}

// FullMethod returns the full gRPC method name of an Objects method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](name string, call func(ObjectsServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ObjectsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ObjectsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
