package client

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/internal/objsvc/server"
	coreGrpc "github.com/msto63/plankton/pkg/core/grpc"
	"github.com/msto63/plankton/pkg/core/health"
	"github.com/msto63/plankton/pkg/core/logging"
	"github.com/msto63/plankton/pkg/core/store"
	"github.com/msto63/plankton/pkg/predicate"
)

type fixture struct {
	client *Client
	conn   *grpc.ClientConn
}

func startServer(t *testing.T) fixture {
	t.Helper()
	logger := logging.New("objects-test").WithLevel(logging.LevelError)

	st, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:   filepath.Join(t.TempDir(), "objects.db"),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	cfg := server.DefaultConfig()
	cfg.Logger = logger
	cfg.EnableReflection = false
	cfg.HealthInterval = 20 * time.Millisecond
	cfg.Service.Store = st

	srv, err := server.New(cfg)
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	clientCfg := coreGrpc.DefaultClientConfig("passthrough:///bufnet")
	clientCfg.Logger = logger
	conn, err := coreGrpc.Dial(clientCfg, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return fixture{client: New(conn), conn: conn}
}

func sample() *objx.Object {
	return objx.NewObject().Set("a", 1).Set("c", 2).Set("e", 3).Set("f", 4)
}

func TestMerge(t *testing.T) {
	f := startServer(t)

	merged, err := f.client.Merge(context.Background(),
		objx.Combine[any]("a", 1),
		objx.Combine[any]("a", 2),
		objx.NewObject().Set("b", objx.NewObject().Set("x", true)),
	)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := objx.NewObject().Set("a", 2).Set("b", objx.NewObject().Set("x", true))
	if !merged.Equal(want) {
		t.Errorf("Merge() = %v, want %v", merged, want)
	}
}

func TestKeysValuesCount(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()
	subject := objx.NewObject().Set("b", "two").Set("a", 1)

	keys, err := f.client.Keys(ctx, subject)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, keys); diff != "" {
		t.Errorf("Keys() (-want +got):\n%s", diff)
	}

	values, err := f.client.Values(ctx, subject)
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if diff := cmp.Diff([]any{"two", 1}, values); diff != "" {
		t.Errorf("Values() (-want +got):\n%s", diff)
	}

	n, err := f.client.Count(ctx, subject)
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2", n, err)
	}
}

func TestAny(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()

	found, err := f.client.Any(ctx, objx.NewObject().Set("k", "v"), predicate.ByItem)
	if err != nil {
		t.Fatalf("Any() error = %v", err)
	}
	want := objx.NewObject().
		Set("found", true).
		Set("item", objx.NewObject().Set("k", "v")).
		Set("key", "k").
		Set("value", "v")
	if !found.Equal(want) {
		t.Errorf("Any() = %v, want %v", found, want)
	}

	empty, err := f.client.Any(ctx, objx.NewObject(), predicate.ByValue)
	if err != nil {
		t.Fatalf("Any() error = %v", err)
	}
	if !empty.Equal(objx.NewObject().Set("found", false)) {
		t.Errorf("Any(empty) = %v", empty)
	}
}

func TestFilter(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()

	even, err := f.client.Filter(ctx, sample(), "value % 2 == 0", predicate.ByValue)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if !even.Equal(objx.NewObject().Set("c", 2).Set("f", 4)) {
		t.Errorf("Filter() = %v", even)
	}

	_, err = f.client.Filter(ctx, sample(), "value +", predicate.ByValue)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Filter() error = %v, want INVALID_INPUT", err)
	}

	_, err = f.client.Filter(ctx, sample(), "true", predicate.By(42))
	if err != nil {
		t.Errorf("unknown By values fall back to value: %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()

	snap, err := f.client.Save(ctx, "sample", sample())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if v, _ := snap.GetOwn("entries"); v != 4 {
		t.Errorf("entries = %v, want 4", v)
	}

	loaded, err := f.client.Load(ctx, "sample")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Equal(sample()) {
		t.Errorf("Load() = %v, want %v", loaded, sample())
	}

	list, err := f.client.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}

	if err := f.client.Delete(ctx, "sample"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.client.Load(ctx, "sample"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("Load() after Delete error = %v, want NOT_FOUND", err)
	}
}

func TestKeyOrderSurvivesTransport(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()
	subject := objx.NewObject().Set("z", 2).Set("a", 3).Set("b", 4)

	filtered, err := f.client.Filter(ctx, subject, "value == 3 ? nil : value % 2 == 0", predicate.ByValue)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if !filtered.Equal(objx.NewObject().Set("z", 2)) {
		t.Errorf("Filter() = %v, want {z: 2}", filtered)
	}

	keys, err := f.client.Keys(ctx, subject)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "b"}, keys); diff != "" {
		t.Errorf("Keys() (-want +got):\n%s", diff)
	}

	values, err := f.client.Values(ctx, subject)
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	if diff := cmp.Diff([]any{2, 3, 4}, values); diff != "" {
		t.Errorf("Values() (-want +got):\n%s", diff)
	}

	first, err := f.client.Any(ctx, subject, predicate.ByKey)
	if err != nil {
		t.Fatalf("Any() error = %v", err)
	}
	if key, _ := first.GetOwn("key"); key != "z" {
		t.Errorf("Any(ByKey) key = %v, want z", key)
	}

	merged, err := f.client.Merge(ctx, subject, objx.Combine[any]("m", 0))
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "b", "m"}, objx.Keys(merged)); diff != "" {
		t.Errorf("Merge() keys (-want +got):\n%s", diff)
	}

	if _, err := f.client.Save(ctx, "ordered", subject); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := f.client.Load(ctx, "ordered")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "b"}, objx.Keys(loaded)); diff != "" {
		t.Errorf("Load() keys (-want +got):\n%s", diff)
	}
}

func TestHealth(t *testing.T) {
	f := startServer(t)
	hc := healthpb.NewHealthClient(f.conn)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: server.ServiceName})
		if err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Objects service never reported SERVING")
}

func TestClientHealth(t *testing.T) {
	f := startServer(t)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		status, err := f.client.Health(context.Background())
		if err == nil && status == health.StatusHealthy {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Health() never reported healthy")
}
