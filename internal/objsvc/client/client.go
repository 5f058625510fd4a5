// Package client calls a remote plankton.v1.Objects service with property
// maps, converting to and from protobuf Structs.
package client

import (
	"context"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/internal/objsvc/server"
	coreGrpc "github.com/msto63/plankton/pkg/core/grpc"
	"github.com/msto63/plankton/pkg/core/health"
	"github.com/msto63/plankton/pkg/predicate"
)

// Client is an Objects client
type Client struct {
	conn   grpc.ClientConnInterface
	closer func() error
}

// Dial connects to the service at target
func Dial(cfg coreGrpc.ClientConfig) (*Client, error) {
	conn, err := coreGrpc.Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, closer: conn.Close}, nil
}

// New wraps an existing connection. Close does not close it.
func New(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Close closes a connection opened by Dial
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}) error {
	err := c.conn.Invoke(ctx, server.FullMethod(method), in, out)
	return coreGrpc.FromStatus(err, "client."+method)
}

// Merge merges sources remotely
func (c *Client) Merge(ctx context.Context, sources ...*objx.Object) (*objx.Object, error) {
	list := make([]any, len(sources))
	for i, src := range sources {
		list[i] = src
	}
	in, err := toList(list)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "Merge", in, out); err != nil {
		return nil, err
	}
	return codec.FromStruct(out), nil
}

// Keys returns the own keys of subject in order
func (c *Client) Keys(ctx context.Context, subject *objx.Object) ([]string, error) {
	values, err := c.listCall(ctx, "Keys", subject)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i], _ = v.(string)
	}
	return keys, nil
}

// Values returns the own values of subject in key order
func (c *Client) Values(ctx context.Context, subject *objx.Object) ([]any, error) {
	return c.listCall(ctx, "Values", subject)
}

// Count returns the number of entries of subject
func (c *Client) Count(ctx context.Context, subject *objx.Object) (int, error) {
	in, err := codec.ToStruct(subject)
	if err != nil {
		return 0, err
	}
	out := new(wrapperspb.Int64Value)
	if err := c.invoke(ctx, "Count", in, out); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

// Any returns one entry of subject as {found, key, value, item}
func (c *Client) Any(ctx context.Context, subject *objx.Object, by predicate.By) (*objx.Object, error) {
	args := objx.NewObject().Set("subject", subject).Set("by", by.String())
	return c.structCall(ctx, "Any", args)
}

// Filter selects entries of subject remotely
func (c *Client) Filter(ctx context.Context, subject *objx.Object, source string, by predicate.By) (*objx.Object, error) {
	args := objx.NewObject().
		Set("subject", subject).
		Set("expr", source).
		Set("by", by.String())
	return c.structCall(ctx, "Filter", args)
}

// Save stores subject under name and returns the snapshot description
func (c *Client) Save(ctx context.Context, name string, subject *objx.Object) (*objx.Object, error) {
	args := objx.NewObject().Set("name", name).Set("subject", subject)
	return c.structCall(ctx, "Save", args)
}

// Load returns the snapshot stored under name
func (c *Client) Load(ctx context.Context, name string) (*objx.Object, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "Load", wrapperspb.String(name), out); err != nil {
		return nil, err
	}
	return codec.FromStruct(out), nil
}

// List returns the snapshot descriptions
func (c *Client) List(ctx context.Context) ([]*objx.Object, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, "List", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	snapshots := make([]*objx.Object, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		if obj, ok := codec.FromValue(v).(*objx.Object); ok {
			snapshots = append(snapshots, obj)
		}
	}
	return snapshots, nil
}

// Delete removes the snapshot stored under name
func (c *Client) Delete(ctx context.Context, name string) error {
	return c.invoke(ctx, "Delete", wrapperspb.String(name), &emptypb.Empty{})
}

// Health asks the standard gRPC health service about the Objects service
func (c *Client) Health(ctx context.Context) (health.Status, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: server.ServiceName})
	if err != nil {
		return health.StatusUnknown, coreGrpc.FromStatus(err, "client.Health")
	}
	return health.FromServingStatus(resp.GetStatus()), nil
}

func (c *Client) structCall(ctx context.Context, method string, args *objx.Object) (*objx.Object, error) {
	in, err := codec.ToStruct(args)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return codec.FromStruct(out), nil
}

func (c *Client) listCall(ctx context.Context, method string, subject *objx.Object) ([]any, error) {
	in, err := codec.ToStruct(subject)
	if err != nil {
		return nil, err
	}
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	values := make([]any, len(out.GetValues()))
	for i, v := range out.GetValues() {
		values[i] = codec.FromValue(v)
	}
	return values, nil
}

func toList(values []any) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(values))}
	for i, v := range values {
		pv, err := codec.ToValue(v)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to convert source").
				WithCode(mdwerror.CodeInvalidInput).
				WithDetail("index", i)
		}
		list.Values = append(list.Values, pv)
	}
	return list, nil
}
