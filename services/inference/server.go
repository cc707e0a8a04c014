package inference

import (
	"context"

	"go.opencensus.io/trace"
	"google.golang.org/grpc/status"

	inferencepb "go.viam.com/detectd/proto/inference/v1"
)

// serviceServer implements the InferenceService gRPC service.
type serviceServer struct {
	inferencepb.UnimplementedInferenceServiceServer
	svc *Service
}

// NewRPCServiceServer constructs an inference gRPC service server.
func NewRPCServiceServer(svc *Service) inferencepb.InferenceServiceServer {
	return &serviceServer{svc: svc}
}

// Detect never returns a partial response: on any failure the caller gets only a status.
func (server *serviceServer) Detect(ctx context.Context, req *inferencepb.DetectRequest) (*inferencepb.DetectResponse, error) {
	ctx, span := trace.StartSpan(ctx, "inference::server::Detect")
	defer span.End()

	resp, err := server.svc.Detect(ctx, req)
	if err != nil {
		svcErr := ToServiceError(StageReceived, err)
		return nil, status.Error(svcErr.Code, svcErr.Message)
	}
	return resp, nil
}
