package rimage

import (
	"errors"
	"fmt"
)

// Reasons a buffer can be rejected by DecodeRaster. Match them with errors.Is.
var (
	ErrEmptyImage        = errors.New("image is empty")
	ErrImageTooLarge     = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrZeroArea          = errors.New("image has zero width or height")
	ErrTooManyPixels     = errors.New("image exceeds the maximum allowed pixel count")
	ErrCorruptImage      = errors.New("image data is truncated or corrupt")
	ErrDimensionMismatch = errors.New("decoded pixels do not match the image header")
)

// DecodeError is returned for every buffer DecodeRaster refuses. Reason is one of the sentinel
// errors above, Err is the underlying codec error if there was one.
type DecodeError struct {
	Reason error
	Err    error
}

func newDecodeError(reason, err error) *DecodeError {
	return &DecodeError{Reason: reason, Err: err}
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// IsDecodeError reports whether err, or anything it wraps, is a *DecodeError.
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}
