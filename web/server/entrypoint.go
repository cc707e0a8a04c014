// Package server implements the entry point for running a detectd gRPC server.
package server

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"go.viam.com/detectd/config"
	rgrpc "go.viam.com/detectd/grpc"
	"go.viam.com/detectd/logging"
	inferencepb "go.viam.com/detectd/proto/inference/v1"
	"go.viam.com/detectd/services/inference"
	"go.viam.com/detectd/vision/objectdetection"
)

// Server hosts an inference service over gRPC along with the standard health service.
type Server struct {
	cfg        *config.Config
	logger     logging.Logger
	svc        *inference.Service
	grpcServer *grpc.Server
	health     *health.Server
}

// New builds the configured detector and inference service and registers them on a gRPC server.
// Nothing listens until Serve is called.
func New(cfg *config.Config, logger logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	det, err := config.NewDetector(cfg.Detector, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build detector")
	}
	return newWithDetector(cfg, det, logger)
}

func newWithDetector(cfg *config.Config, det objectdetection.Detector, logger logging.Logger) (*Server, error) {
	svc, err := inference.NewService(cfg.InferenceConfig(), det, logger.Sublogger("inference"))
	if err != nil {
		return nil, multierr.Combine(err, goutils.TryClose(context.Background(), det))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(rgrpc.UnaryServerInterceptor(logger)),
		grpc.MaxRecvMsgSize(cfg.RecvMsgLimit()),
	)
	inferencepb.RegisterInferenceServiceServer(grpcServer, inference.NewRPCServiceServer(svc))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	if cfg.Server.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		svc:        svc,
		grpcServer: grpcServer,
		health:     healthServer,
	}, nil
}

// Serve accepts connections on lis until ctx is done and then stops gracefully. Requests in
// progress get up to the configured graceful stop timeout to finish, after which remaining
// connections are closed. The inference service is closed before Serve returns.
func (s *Server) Serve(ctx context.Context, lis net.Listener) (err error) {
	defer func() {
		err = multierr.Combine(err, s.svc.Close(context.Background()))
	}()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(inferencepb.InferenceService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Infow("serving", "address", lis.Addr().String())

	serveErr := make(chan error, 1)
	goutils.PanicCapturingGo(func() {
		serveErr <- s.grpcServer.Serve(lis)
	})

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "grpc server stopped")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.health.Shutdown()
	s.gracefulStop()
	if err := <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) gracefulStop() {
	stopped := make(chan struct{})
	goutils.PanicCapturingGo(func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	})
	timeout := s.cfg.Server.GracefulStopTimeout
	if timeout <= 0 {
		timeout = config.DefaultGracefulStopTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-stopped:
	case <-timer.C:
		s.logger.Warnw("graceful stop timed out, closing remaining connections", "timeout", timeout)
		s.grpcServer.Stop()
		<-stopped
	}
}

// Stats returns the inference worker pool counters.
func (s *Server) Stats() inference.Stats {
	return s.svc.Stats()
}

// RunServer listens on the configured address and serves until ctx is done.
func RunServer(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	if cfg.Server.TraceSpans {
		exp := newSpanLogger(logger.Sublogger("trace"))
		trace.RegisterExporter(exp)
		defer trace.UnregisterExporter(exp)
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	}

	srv, err := New(cfg, logger)
	if err != nil {
		return err
	}
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", cfg.Server.Address)
	if err != nil {
		return multierr.Combine(
			errors.Wrapf(err, "failed to listen on %s", cfg.Server.Address),
			srv.svc.Close(ctx),
		)
	}
	return srv.Serve(ctx, lis)
}
