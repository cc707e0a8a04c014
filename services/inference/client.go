package inference

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
	"go.opencensus.io/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	rgrpc "go.viam.com/detectd/grpc"
	"go.viam.com/detectd/logging"
	inferencepb "go.viam.com/detectd/proto/inference/v1"
)

// Defaults for ClientConfig.
const (
	DefaultClientTimeout = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = time.Second
	DefaultBreakerName   = "inference-service"
)

// ClientConfig describes how to reach a remote inference service.
type ClientConfig struct {
	Address string
	// Timeout bounds each Detect call, retries included, unless the caller's deadline is sooner.
	Timeout time.Duration
	// MaxRetries is how many more times a call failing with a transient status is attempted.
	// Zero means DefaultMaxRetries and a negative value disables retries.
	MaxRetries  int
	RetryDelay  time.Duration
	BreakerName string
}

func (cfg ClientConfig) withDefaults() ClientConfig {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = DefaultBreakerName
	}
	return cfg
}

// Client calls a remote inference service. Transient failures are retried, and after more than
// five consecutive failures a circuit breaker fails calls fast for ten seconds.
type Client struct {
	conn     *grpc.ClientConn
	client   inferencepb.InferenceServiceClient
	cb       *gobreaker.CircuitBreaker[*inferencepb.DetectResponse]
	cfg      ClientConfig
	callOpts []grpc.CallOption
	logger   logging.Logger
}

// NewClient returns a client for the service at cfg.Address. Extra dial options are passed on
// to grpc.
func NewClient(cfg ClientConfig, logger logging.Logger, opts ...grpc.DialOption) (*Client, error) {
	cfg = cfg.withDefaults()
	conn, err := rgrpc.Dial(cfg.Address, logger, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to inference service")
	}

	c := &Client{
		conn:     conn,
		client:   inferencepb.NewInferenceServiceClient(conn),
		cfg:      cfg,
		callOpts: rgrpc.RetryCallOptions(cfg.MaxRetries, cfg.RetryDelay),
		logger:   logger,
	}
	c.cb = gobreaker.NewCircuitBreaker[*inferencepb.DetectResponse](gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: breakerSuccess,
	})
	return c, nil
}

// breakerSuccess keeps failures that say nothing about the remote's health from tripping the
// breaker.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.Canceled:
		return true
	default:
		return false
	}
}

// Detect sends image to the remote service.
func (c *Client) Detect(ctx context.Context, image []byte) (*inferencepb.DetectResponse, error) {
	ctx, span := trace.StartSpan(ctx, "inference::client::Detect")
	defer span.End()

	if len(image) == 0 {
		return nil, errors.New("image data is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.cb.Execute(func() (*inferencepb.DetectResponse, error) {
		return c.client.Detect(ctx, &inferencepb.DetectRequest{Image: image}, c.callOpts...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, status.Errorf(codes.Unavailable, "%s: %v", c.cfg.BreakerName, err)
		}
		return nil, err
	}
	return resp, nil
}

// DetectFromFile reads an encoded image from disk and sends it to the remote service.
func (c *Client) DetectFromFile(ctx context.Context, path string) (*inferencepb.DetectResponse, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image file %s", path)
	}
	return c.Detect(ctx, image)
}

// BreakerState reports whether the client is currently failing calls fast.
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
