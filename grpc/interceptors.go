// Package grpc contains the interceptors and dial helpers shared by detectd's gRPC server and
// clients.
package grpc

import (
	"context"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_ctxtags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.viam.com/detectd/logging"
)

// DefaultMethodTimeout is the default context timeout for all inbound gRPC
// methods and all outbound gRPC methods, only used when no
// deadline is set on the context.
var DefaultMethodTimeout = 10 * time.Minute

// EnsureTimeoutUnaryServerInterceptor sets a default timeout on the context if one is
// not already set. To be called as the first unary server interceptor.
func EnsureTimeoutUnaryServerInterceptor(ctx context.Context, req interface{},
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
) (interface{}, error) {
	if _, deadlineSet := ctx.Deadline(); !deadlineSet {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultMethodTimeout)
		defer cancel()
	}

	return handler(ctx, req)
}

// EnsureTimeoutUnaryClientInterceptor sets a default timeout on the context if one is
// not already set. To be called as the first unary client interceptor.
func EnsureTimeoutUnaryClientInterceptor(
	ctx context.Context,
	method string, req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if _, deadlineSet := ctx.Deadline(); !deadlineSet {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultMethodTimeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// RecoveryHandler turns a panic inside a handler into an INTERNAL status after logging it.
func RecoveryHandler(logger logging.Logger) grpc_recovery.RecoveryHandlerFunc {
	return func(p interface{}) error {
		logger.Errorw("panic while handling request", "panic", p)
		return status.Errorf(codes.Internal, "internal error: %v", p)
	}
}

// accessLogLevel keeps successful calls out of Info so each request is not logged twice.
func accessLogLevel(code codes.Code) zapcore.Level {
	if code == codes.OK {
		return zapcore.DebugLevel
	}
	return grpc_zap.DefaultCodeToLevel(code)
}

// UnaryServerInterceptor returns the interceptor chain every detectd server installs: a default
// timeout, request tags, an access log and panic recovery, in that order.
func UnaryServerInterceptor(logger logging.Logger, extra ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	unaries := []grpc.UnaryServerInterceptor{
		EnsureTimeoutUnaryServerInterceptor,
		grpc_ctxtags.UnaryServerInterceptor(),
		grpc_zap.UnaryServerInterceptor(logger.Sublogger("access").Desugar(), grpc_zap.WithLevels(accessLogLevel)),
		grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(RecoveryHandler(logger))),
	}
	unaries = append(unaries, extra...)
	return grpc_middleware.ChainUnaryServer(unaries...)
}
