package inject

import (
	"context"

	inferencepb "go.viam.com/detectd/proto/inference/v1"
)

// InferenceServiceServer represents a fake inference gRPC service.
type InferenceServiceServer struct {
	inferencepb.UnimplementedInferenceServiceServer
	DetectFunc func(ctx context.Context, req *inferencepb.DetectRequest) (*inferencepb.DetectResponse, error)
}

// Detect calls the injected Detect or the unimplemented variant.
func (s *InferenceServiceServer) Detect(
	ctx context.Context,
	req *inferencepb.DetectRequest,
) (*inferencepb.DetectResponse, error) {
	if s.DetectFunc == nil {
		return s.UnimplementedInferenceServiceServer.Detect(ctx, req)
	}
	return s.DetectFunc(ctx, req)
}
