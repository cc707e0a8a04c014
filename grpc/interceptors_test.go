package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/atomic"
	"go.viam.com/test"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"go.viam.com/detectd/logging"
	inferencepb "go.viam.com/detectd/proto/inference/v1"
)

func TestEnsureTimeoutUnaryServerInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: inferencepb.InferenceService_Detect_FullMethodName}
	var deadline time.Time
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		var ok bool
		deadline, ok = ctx.Deadline()
		test.That(t, ok, test.ShouldBeTrue)
		return nil, nil
	}

	_, err := EnsureTimeoutUnaryServerInterceptor(context.Background(), nil, info, handler)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, time.Until(deadline), test.ShouldBeGreaterThan, DefaultMethodTimeout-time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = EnsureTimeoutUnaryServerInterceptor(ctx, nil, info, handler)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, time.Until(deadline), test.ShouldBeLessThanOrEqualTo, time.Second)
}

func TestUnaryServerInterceptorRecovers(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	info := &grpc.UnaryServerInfo{FullMethod: inferencepb.InferenceService_Detect_FullMethodName}
	_, err := UnaryServerInterceptor(logger)(context.Background(), nil, info,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("detector exploded")
		})
	test.That(t, status.Code(err), test.ShouldEqual, codes.Internal)
	test.That(t, err.Error(), test.ShouldContainSubstring, "detector exploded")
	test.That(t, logs.FilterMessage("panic while handling request").Len(), test.ShouldEqual, 1)
}

type flakyServer struct {
	inferencepb.UnimplementedInferenceServiceServer
	calls    atomic.Int32
	failures int32
	code     codes.Code
}

func (s *flakyServer) Detect(ctx context.Context, req *inferencepb.DetectRequest) (*inferencepb.DetectResponse, error) {
	if s.calls.Inc() <= s.failures {
		return nil, status.Error(s.code, "try again")
	}
	return &inferencepb.DetectResponse{Detections: []*inferencepb.Detection{{ClassName: "person"}}}, nil
}

func serveFlaky(t *testing.T, srv *flakyServer) inferencepb.InferenceServiceClient {
	t.Helper()
	logger := logging.NewTestLogger(t)
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.UnaryInterceptor(UnaryServerInterceptor(logger)))
	inferencepb.RegisterInferenceServiceServer(server, srv)
	go server.Serve(lis)

	conn, err := Dial("passthrough:///bufnet", logger, grpc.WithContextDialer(
		func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, conn.Close(), test.ShouldBeNil)
		server.Stop()
	})
	return inferencepb.NewInferenceServiceClient(conn)
}

func TestDialRetries(t *testing.T) {
	srv := &flakyServer{failures: 2, code: codes.Unavailable}
	client := serveFlaky(t, srv)

	resp, err := client.Detect(context.Background(), &inferencepb.DetectRequest{Image: []byte{1}},
		RetryCallOptions(3, time.Millisecond)...)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.GetDetections(), test.ShouldHaveLength, 1)
	test.That(t, srv.calls.Load(), test.ShouldEqual, int32(3))
}

func TestDialDoesNotRetryByDefault(t *testing.T) {
	srv := &flakyServer{failures: 1, code: codes.Unavailable}
	client := serveFlaky(t, srv)

	_, err := client.Detect(context.Background(), &inferencepb.DetectRequest{Image: []byte{1}})
	test.That(t, status.Code(err), test.ShouldEqual, codes.Unavailable)
	test.That(t, srv.calls.Load(), test.ShouldEqual, int32(1))
}

func TestDialDoesNotRetryCallerErrors(t *testing.T) {
	srv := &flakyServer{failures: 5, code: codes.InvalidArgument}
	client := serveFlaky(t, srv)

	_, err := client.Detect(context.Background(), &inferencepb.DetectRequest{Image: []byte{1}},
		RetryCallOptions(3, time.Millisecond)...)
	test.That(t, status.Code(err), test.ShouldEqual, codes.InvalidArgument)
	test.That(t, srv.calls.Load(), test.ShouldEqual, int32(1))
}

func TestDialRequiresAddress(t *testing.T) {
	_, err := Dial("", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, RetryCallOptions(0, time.Second), test.ShouldBeEmpty)
}
