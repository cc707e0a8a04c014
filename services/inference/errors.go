package inference

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.viam.com/detectd/rimage"
)

var (
	// ErrClosed is returned for requests that arrive after the service was closed.
	ErrClosed = errors.New("inference service is closed")
	// ErrQueueFull is returned when every worker is busy and the queue has no room left.
	ErrQueueFull = errors.New("inference queue is full")
)

// InferenceError is a failure reported by the detector. Any detections it produced alongside the
// failure are discarded.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return "inference failed: " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// AssemblyError means a detector handed back something that cannot be put on the wire. It points
// at a bug in the detector rather than at the request.
type AssemblyError struct {
	Index  int
	Reason string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("detection %d: %s", e.Index, e.Reason)
}

// ServiceError is the protocol facing form of every failure: a status code, a message safe to
// hand to the caller and the stage the request was in when it failed.
type ServiceError struct {
	Code    codes.Code
	Message string
	Stage   Stage
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s during %s: %s", e.Code, e.Stage, e.Message)
}

// GRPCStatus lets status.FromError and status.Code read the code of a ServiceError.
func (e *ServiceError) GRPCStatus() *status.Status {
	return status.New(e.Code, e.Message)
}

// ToServiceError maps err, returned while the request was in stage, to a ServiceError. This is
// the only place a failure is given a status code.
func ToServiceError(stage Stage, err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	// detector and assembly failures stay INTERNAL.
	code := codes.Internal
	switch {
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, ErrQueueFull):
		code = codes.ResourceExhausted
	case errors.Is(err, ErrClosed):
		code = codes.Unavailable
	case rimage.IsDecodeError(err):
		code = codes.InvalidArgument
	}
	return &ServiceError{Code: code, Message: err.Error(), Stage: stage}
}
