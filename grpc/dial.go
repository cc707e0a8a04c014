package grpc

import (
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"

	"go.viam.com/detectd/logging"
)

// RetryableCodes are the statuses a call is retried on. Anything else is either the caller's
// fault or not safe to repeat.
var RetryableCodes = []codes.Code{codes.Unavailable, codes.ResourceExhausted}

// Dial creates a client connection to a gRPC server. Calls made on it get a default timeout and
// a debug level access log, and can opt into retries with RetryCallOptions. The connection is
// established lazily on the first call.
func Dial(address string, logger logging.Logger, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if address == "" {
		return nil, errors.New("address cannot be empty")
	}
	unaries := []grpc.UnaryClientInterceptor{
		EnsureTimeoutUnaryClientInterceptor,
		grpc_zap.UnaryClientInterceptor(logger.Sublogger("client").Desugar(), grpc_zap.WithLevels(accessLogLevel)),
		// retries are off unless a call passes RetryCallOptions.
		grpc_retry.UnaryClientInterceptor(grpc_retry.WithMax(0)),
	}
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(unaries...)),
	}
	dialOpts = append(dialOpts, opts...)
	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %q", address)
	}
	return conn, nil
}

// RetryCallOptions makes a call on a connection from Dial try up to maxRetries more times when
// it fails with one of RetryableCodes, waiting delay between attempts.
func RetryCallOptions(maxRetries int, delay time.Duration) []grpc.CallOption {
	if maxRetries <= 0 {
		return nil
	}
	return []grpc.CallOption{
		grpc_retry.WithMax(uint(maxRetries) + 1),
		grpc_retry.WithBackoff(grpc_retry.BackoffLinear(delay)),
		grpc_retry.WithCodes(RetryableCodes...),
	}
}
