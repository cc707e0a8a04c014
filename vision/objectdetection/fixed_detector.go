package objectdetection

import (
	"context"

	"go.viam.com/detectd/rimage"
)

// fixedBox is a detection placed at fractions of the image size.
type fixedBox struct {
	class          string
	x0, y0, x1, y1 float64
}

var fixedBoxes = []fixedBox{
	{"person", 0.1, 0.2, 0.4, 0.8},
	{"car", 0.5, 0.3, 0.9, 0.7},
}

// NewFixedDetector returns a detector that reports the same two objects, a person and a car, in
// every image, scaled to its size. It stands in for a real model when wiring up or testing a
// deployment.
func NewFixedDetector() Detector {
	return DetectorFunc(func(ctx context.Context, raster *rimage.Raster) ([]Detection, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, h := float64(raster.Width), float64(raster.Height)
		dets := make([]Detection, 0, len(fixedBoxes))
		for _, b := range fixedBoxes {
			dets = append(dets, Detection{
				ClassName: b.class,
				Rect:      Rectangle{X0: w * b.x0, Y0: h * b.y0, X1: w * b.x1, Y1: h * b.y1},
			})
		}
		return dets, nil
	})
}
