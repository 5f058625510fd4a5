package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/pkg/core/logging"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/plankton.v1.Objects/Keys"}

func quietLogger() *logging.Logger {
	return logging.New("grpc-test").WithLevel(logging.LevelError)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", mdwerror.New("x").WithCode(mdwerror.CodeNotFound), codes.NotFound},
		{"invalid input", mdwerror.New("x").WithCode(mdwerror.CodeInvalidInput), codes.InvalidArgument},
		{"expression", mdwerror.New("x").WithCode(mdwerror.CodeExpressionError), codes.InvalidArgument},
		{"corruption", mdwerror.New("x").WithCode(mdwerror.CodeDataCorruption), codes.DataLoss},
		{"wrapped", fmt.Errorf("ctx: %w", mdwerror.New("x").WithCode(mdwerror.CodeDuplicateEntry)), codes.AlreadyExists},
		{"unknown code", mdwerror.New("x"), codes.Unknown},
		{"plain", errors.New("x"), codes.Unknown},
		{"canceled", context.Canceled, codes.Canceled},
		{"deadline", fmt.Errorf("slow: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"status passthrough", status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(ToStatus(tt.err)); got != tt.want {
				t.Errorf("ToStatus() code = %v, want %v", got, tt.want)
			}
		})
	}

	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}
}

func TestFromStatus(t *testing.T) {
	err := FromStatus(status.Error(codes.NotFound, "snapshot missing"), "client.Load")
	mdwErr, ok := mdwerror.As(err)
	if !ok {
		t.Fatalf("FromStatus() = %T, want *mdwerror.Error", err)
	}
	if mdwErr.Code() != mdwerror.CodeNotFound {
		t.Errorf("Code() = %v, want NOT_FOUND", mdwErr.Code())
	}
	if mdwErr.Message() != "snapshot missing" || mdwErr.Operation() != "client.Load" {
		t.Errorf("FromStatus() = %q / %q", mdwErr.Message(), mdwErr.Operation())
	}

	if !mdwerror.HasCode(FromStatus(status.Error(codes.Aborted, "x"), "op"), mdwerror.CodeUnknown) {
		t.Error("unmapped status should become UNKNOWN")
	}
	if FromStatus(nil, "op") != nil {
		t.Error("FromStatus(nil) should be nil")
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(quietLogger())

	_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("code = %v, want Internal", status.Code(err))
	}

	resp, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Errorf("interceptor() = %v, %v", resp, err)
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()

	t.Run("from metadata", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42"))
		var seen string
		interceptor(ctx, nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			seen = GetRequestID(ctx)
			return nil, nil
		})
		if seen != "req-42" {
			t.Errorf("request id = %q, want req-42", seen)
		}
	})

	t.Run("generated", func(t *testing.T) {
		var seen string
		interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			seen = GetRequestID(ctx)
			return nil, nil
		})
		if len(seen) != 36 {
			t.Errorf("generated request id = %q, want a UUID", seen)
		}
	})
}

func TestStatusInterceptor(t *testing.T) {
	interceptor := StatusInterceptor()

	_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "partial", mdwerror.New("bad expression").WithCode(mdwerror.CodeExpressionError)
	})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		t.Fatalf("err = %v, want InvalidArgument status", err)
	}
	if st.Message() != "bad expression" {
		t.Errorf("message = %q", st.Message())
	}
}

func TestClientTimeoutInterceptor(t *testing.T) {
	interceptor := ClientTimeoutInterceptor(time.Minute)

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	}
	if err := interceptor(context.Background(), "/m", nil, nil, nil, invoker); err != nil {
		t.Errorf("interceptor() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	want, _ := ctx.Deadline()
	keep := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		if got, _ := ctx.Deadline(); !got.Equal(want) {
			return errors.New("deadline replaced")
		}
		return nil
	}
	if err := interceptor(ctx, "/m", nil, nil, nil, keep); err != nil {
		t.Errorf("interceptor() error = %v", err)
	}
}

func TestClientRequestIDInterceptor(t *testing.T) {
	interceptor := ClientRequestIDInterceptor()
	ctx := WithRequestID(context.Background(), "req-7")

	err := interceptor(ctx, "/m", nil, nil, nil, func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		if got := md.Get(RequestIDHeader); len(got) != 1 || got[0] != "req-7" {
			return fmt.Errorf("outgoing request id = %v", got)
		}
		return nil
	})
	if err != nil {
		t.Error(err)
	}
}
