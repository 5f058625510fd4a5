package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
)

var toGRPC = map[mdwerror.Code]codes.Code{
	mdwerror.CodeNotFound:              codes.NotFound,
	mdwerror.CodeInvalidInput:          codes.InvalidArgument,
	mdwerror.CodeValidationFailed:      codes.InvalidArgument,
	mdwerror.CodeParseError:            codes.InvalidArgument,
	mdwerror.CodeInvalidFormat:         codes.InvalidArgument,
	mdwerror.CodeExpressionError:       codes.InvalidArgument,
	mdwerror.CodeInvalidOperation:      codes.FailedPrecondition,
	mdwerror.CodeDuplicateEntry:        codes.AlreadyExists,
	mdwerror.CodeTimeout:               codes.DeadlineExceeded,
	mdwerror.CodeServiceUnavailable:    codes.Unavailable,
	mdwerror.CodeConnectionFailed:      codes.Unavailable,
	mdwerror.CodeDataCorruption:        codes.DataLoss,
	mdwerror.CodeDatabaseError:         codes.Internal,
	mdwerror.CodeInternal:              codes.Internal,
	mdwerror.CodeServiceInitialization: codes.Internal,
	mdwerror.CodeConfigError:           codes.Internal,
	mdwerror.CodeMissingConfig:         codes.Internal,
	mdwerror.CodeInvalidConfig:         codes.Internal,
}

var fromGRPC = map[codes.Code]mdwerror.Code{
	codes.NotFound:           mdwerror.CodeNotFound,
	codes.InvalidArgument:    mdwerror.CodeInvalidInput,
	codes.FailedPrecondition: mdwerror.CodeInvalidOperation,
	codes.AlreadyExists:      mdwerror.CodeDuplicateEntry,
	codes.DeadlineExceeded:   mdwerror.CodeTimeout,
	codes.Unavailable:        mdwerror.CodeServiceUnavailable,
	codes.DataLoss:           mdwerror.CodeDataCorruption,
	codes.Internal:           mdwerror.CodeInternal,
}

// CodeOf maps an error code to its gRPC status code
func CodeOf(code mdwerror.Code) codes.Code {
	if c, ok := toGRPC[code]; ok {
		return c
	}
	return codes.Unknown
}

// ToStatus converts err into a gRPC status error. Status errors and context
// errors keep their meaning; structured errors are mapped by code.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	if mdwErr, ok := mdwerror.As(err); ok {
		return status.Error(CodeOf(mdwErr.Code()), mdwErr.Error())
	}
	return status.Error(codes.Unknown, err.Error())
}

// FromStatus converts a gRPC status error back into a structured error
func FromStatus(err error, operation string) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return mdwerror.Wrap(err, "remote call failed").WithOperation(operation)
	}

	code, ok := fromGRPC[st.Code()]
	if !ok {
		code = mdwerror.CodeUnknown
	}
	return mdwerror.New(st.Message()).
		WithCode(code).
		WithOperation(operation).
		WithDetail("grpc_code", st.Code().String())
}
