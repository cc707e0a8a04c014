// Package inject provides fakes whose behavior tests set through function fields.
package inject

import (
	"context"

	goutils "go.viam.com/utils"

	"go.viam.com/detectd/rimage"
	"go.viam.com/detectd/vision/objectdetection"
)

// Detector represents a fake instance of a detector.
type Detector struct {
	objectdetection.Detector
	DetectFunc func(ctx context.Context, raster *rimage.Raster) ([]objectdetection.Detection, error)
	CloseFunc  func(ctx context.Context) error
}

// Detect calls the injected Detect or the real variant.
func (d *Detector) Detect(ctx context.Context, raster *rimage.Raster) ([]objectdetection.Detection, error) {
	if d.DetectFunc == nil {
		return d.Detector.Detect(ctx, raster)
	}
	return d.DetectFunc(ctx, raster)
}

// Close calls the injected Close or the real variant.
func (d *Detector) Close(ctx context.Context) error {
	if d.CloseFunc == nil {
		return goutils.TryClose(ctx, d.Detector)
	}
	return d.CloseFunc(ctx)
}
