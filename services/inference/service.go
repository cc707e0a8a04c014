// Package inference implements the object detection service: it decodes an image, runs a
// detector over it and assembles the wire response, on a bounded pool of workers.
package inference

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.opencensus.io/trace"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"
	"google.golang.org/grpc/codes"

	"go.viam.com/detectd/logging"
	inferencepb "go.viam.com/detectd/proto/inference/v1"
	"go.viam.com/detectd/rimage"
	"go.viam.com/detectd/vision/objectdetection"
)

// Defaults for Config.
const (
	DefaultWorkers        = 4
	DefaultQueueDepth     = 16
	DefaultRequestTimeout = 30 * time.Second
)

// Config controls how much work the service takes on at once.
type Config struct {
	// Workers is the number of requests processed concurrently.
	Workers int
	// QueueDepth is how many requests may wait for a worker before new ones are rejected with
	// RESOURCE_EXHAUSTED. Zero means requests are only accepted when a worker is idle.
	QueueDepth int
	// RequestTimeout bounds a request from the moment it is received, time spent queued
	// included. A tighter caller deadline wins.
	RequestTimeout time.Duration
	Decoder        rimage.DecodeOptions
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Workers:        DefaultWorkers,
		QueueDepth:     DefaultQueueDepth,
		RequestTimeout: DefaultRequestTimeout,
		Decoder:        rimage.DefaultDecodeOptions(),
	}
}

// Validate ensures all parts of the config are valid.
func (cfg Config) Validate() error {
	if cfg.Workers < 1 {
		return pkgerrors.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.QueueDepth < 0 {
		return pkgerrors.Errorf("queue depth cannot be negative, got %d", cfg.QueueDepth)
	}
	if cfg.RequestTimeout <= 0 {
		return pkgerrors.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return nil
}

// Service runs detection requests. It is safe for concurrent use; the detector it wraps must be
// too.
type Service struct {
	cfg      Config
	decoder  *rimage.Decoder
	detector objectdetection.Detector
	pool     *pool
	logger   logging.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewService starts the worker pool for detector. Close releases the workers and the detector.
func NewService(cfg Config, detector objectdetection.Detector, logger logging.Logger) (*Service, error) {
	if detector == nil {
		return nil, pkgerrors.New("inference service needs a detector")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		decoder:  rimage.NewDecoder(cfg.Decoder),
		detector: detector,
		pool:     newPool(cfg.Workers, cfg.QueueDepth),
		logger:   logger,
	}, nil
}

// requestState is what the request log line reports. The worker writes it while the caller may
// already be reading it after a timeout, hence the atomics.
type requestState struct {
	id     string
	stage  atomic.Int32
	width  atomic.Int64
	height atomic.Int64
	format atomic.String
}

func (rs *requestState) setStage(stage Stage) {
	rs.stage.Store(int32(stage))
}

func (rs *requestState) getStage() Stage {
	return Stage(rs.stage.Load())
}

// Detect runs one request through decode, inference and assembly. On failure the response is nil
// and the error is always a *ServiceError.
func (s *Service) Detect(ctx context.Context, req *inferencepb.DetectRequest) (*inferencepb.DetectResponse, error) {
	ctx, span := trace.StartSpan(ctx, "inference::Service::Detect")
	defer span.End()

	start := time.Now()
	rs := &requestState{id: uuid.NewString()}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.detect(ctx, req, rs)
	if err != nil {
		// a detector cut short by the deadline reports it in its own words.
		var infErr *InferenceError
		if ctxErr := ctx.Err(); ctxErr != nil && errors.As(err, &infErr) {
			err = ctxErr
		}
		svcErr := ToServiceError(rs.getStage(), err)
		span.SetStatus(trace.Status{Code: int32(svcErr.Code), Message: svcErr.Message})
		s.logRequest(rs, start, 0, svcErr)
		return nil, svcErr
	}
	s.logRequest(rs, start, len(resp.GetDetections()), nil)
	return resp, nil
}

func (s *Service) detect(
	ctx context.Context,
	req *inferencepb.DetectRequest,
	rs *requestState,
) (*inferencepb.DetectResponse, error) {
	// oversized and empty buffers never take a queue slot.
	if err := rimage.CheckSize(req.GetImage(), s.cfg.Decoder); err != nil {
		rs.setStage(StageDecoding)
		return nil, err
	}
	return s.pool.do(ctx, func(ctx context.Context) (*inferencepb.DetectResponse, error) {
		return s.process(ctx, req.GetImage(), rs)
	})
}

// process runs on a worker. Each stage starts by checking whether the request is still wanted.
func (s *Service) process(ctx context.Context, image []byte, rs *requestState) (*inferencepb.DetectResponse, error) {
	rs.setStage(StageDecoding)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raster, err := s.decoder.Decode(ctx, image)
	if err != nil {
		return nil, err
	}
	rs.width.Store(int64(raster.Width))
	rs.height.Store(int64(raster.Height))
	rs.format.Store(raster.Format)

	rs.setStage(StageInferring)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.infer(ctx, raster)
	if err != nil {
		return nil, err
	}

	rs.setStage(StageAssembling)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := Assemble(raw, raster.Width, raster.Height)
	if err != nil {
		return nil, err
	}
	rs.setStage(StageCompleted)
	return resp, nil
}

func (s *Service) infer(ctx context.Context, raster *rimage.Raster) (raw []objectdetection.Detection, err error) {
	ctx, span := trace.StartSpan(ctx, "inference::Service::infer")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, &InferenceError{Err: pkgerrors.Errorf("detector panicked: %v", r)}
		}
	}()
	raw, err = s.detector.Detect(ctx, raster)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	return raw, nil
}

func (s *Service) logRequest(rs *requestState, start time.Time, count int, svcErr *ServiceError) {
	code := codes.OK
	if svcErr != nil {
		code = svcErr.Code
	}
	fields := []interface{}{
		"request_id", rs.id,
		"stage", rs.getStage().String(),
		"width", rs.width.Load(),
		"height", rs.height.Load(),
		"format", rs.format.Load(),
		"mime_type", rimage.MimeType(rs.format.Load()),
		"detections", count,
		"duration", time.Since(start),
		"code", code.String(),
	}
	switch {
	case svcErr == nil:
		s.logger.Infow("detect", fields...)
	case code == codes.Internal:
		s.logger.Errorw("detect", append(fields, "error", svcErr.Message)...)
	default:
		s.logger.Warnw("detect", append(fields, "error", svcErr.Message)...)
	}
}

// Stats returns the current worker pool counters.
func (s *Service) Stats() Stats {
	return s.pool.stats()
}

// Close stops accepting requests, waits for in progress ones to finish and closes the detector.
// Requests still queued fail with UNAVAILABLE.
func (s *Service) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.pool.close()
		s.closeErr = goutils.TryClose(ctx, s.detector)
	})
	return s.closeErr
}
