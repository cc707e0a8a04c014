package objectdetection

import (
	"context"
	"image"

	"go.opencensus.io/trace"

	"go.viam.com/detectd/rimage"
)

// SimpleDetectorLabel is the class name given to every blob the simple detector finds.
const SimpleDetectorLabel = "blob"

// simpleDetector converts an image to gray and then finds the connected components with values below a certain
// luminance threshold. threshold is between 0.0 and 256.0, with 256.0 being white, and 0.0 being black.
type simpleDetector struct {
	threshold float64
}

// NewSimpleDetector creates a detector useful for local testing purposes. Looks for dark objects in the image.
// It finds pixels below the set threshold, and returns bounding box around the connected components.
func NewSimpleDetector(threshold float64) Detector {
	sd := &simpleDetector{threshold}
	return DetectorFunc(sd.Inference)
}

// Inference takes in a raster and returns the detection bounding boxes found in it, in scan order.
// Boxes cover whole pixels, so a single dark pixel at (x, y) yields (x, y)-(x+1, y+1).
func (sd *simpleDetector) Inference(ctx context.Context, raster *rimage.Raster) ([]Detection, error) {
	_, span := trace.StartSpan(ctx, "objectdetection::simpleDetector::Inference")
	defer span.End()

	img := raster.Pixels
	width, height := raster.Width, raster.Height
	seen := make([]bool, width*height)
	queue := []image.Point{}
	detections := []Detection{}
	for i := 0; i < width; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := 0; j < height; j++ {
			indx := j*width + i
			if seen[indx] {
				continue
			}
			seen[indx] = true
			if !sd.pass(img, i, j) {
				continue
			}
			queue = append(queue, image.Point{i, j})
			x0, y0, x1, y1 := i, j, i, j // the bounding box of the segment
			for len(queue) != 0 {
				pt := queue[0]
				queue = queue[1:]
				x0, y0 = min(x0, pt.X), min(y0, pt.Y)
				x1, y1 = max(x1, pt.X), max(y1, pt.Y)
				queue = append(queue, sd.getNeighbors(pt, img, seen)...)
			}
			detections = append(detections, NewDetection(
				SimpleDetectorLabel,
				Rectangle{X0: float64(x0), Y0: float64(y0), X1: float64(x1 + 1), Y1: float64(y1 + 1)},
				1.0,
			))
		}
	}
	return detections, nil
}

func (sd *simpleDetector) pass(img *image.NRGBA, x, y int) bool {
	p := img.Pix[img.PixOffset(x, y):]
	lum := 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
	return lum < sd.threshold
}

func (sd *simpleDetector) getNeighbors(pt image.Point, img *image.NRGBA, seen []bool) []image.Point {
	bounds := img.Bounds()
	neighbors := make([]image.Point, 0, 4)
	fourPoints := []image.Point{{pt.X, pt.Y - 1}, {pt.X, pt.Y + 1}, {pt.X - 1, pt.Y}, {pt.X + 1, pt.Y}}
	for _, p := range fourPoints {
		if !p.In(bounds) {
			continue
		}
		indx := p.Y*bounds.Dx() + p.X
		if seen[indx] {
			continue
		}
		seen[indx] = true
		if sd.pass(img, p.X, p.Y) {
			neighbors = append(neighbors, p)
		}
	}
	return neighbors
}
