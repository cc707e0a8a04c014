// Package objectdetection defines the detectors that find objects in a decoded raster and the
// filters applied to their output.
package objectdetection

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	goutils "go.viam.com/utils"

	"go.viam.com/detectd/rimage"
)

// Detector finds objects in a raster. Implementations must be safe for concurrent use: one
// detector serves every worker of the inference service. Output is returned in the order the
// detector produced it, with coordinates that may still lie outside the raster.
type Detector interface {
	Detect(ctx context.Context, raster *rimage.Raster) ([]Detection, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, raster *rimage.Raster) ([]Detection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, raster *rimage.Raster) ([]Detection, error) {
	return f(ctx, raster)
}

// Build chains a detector with postprocessors that run over its output, in order. If the
// detector holds resources, closing the result closes it.
func Build(det Detector, posts ...Postprocessor) (Detector, error) {
	if det == nil {
		return nil, errors.New("object detection pipeline must have a Detector")
	}
	if len(posts) == 0 {
		return det, nil
	}
	return &pipeline{det: det, posts: posts}, nil
}

type pipeline struct {
	det   Detector
	posts []Postprocessor
}

func (p *pipeline) Detect(ctx context.Context, raster *rimage.Raster) ([]Detection, error) {
	ctx, span := trace.StartSpan(ctx, "objectdetection::pipeline::Detect")
	defer span.End()

	dets, err := p.det.Detect(ctx, raster)
	if err != nil {
		return nil, err
	}
	for _, post := range p.posts {
		dets = post(dets)
	}
	return dets, nil
}

func (p *pipeline) Close(ctx context.Context) error {
	return goutils.TryClose(ctx, p.det)
}
