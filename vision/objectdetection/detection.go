package objectdetection

import (
	"fmt"
	"math"
	"strconv"
)

// Rectangle is an axis aligned box in source pixel space. (X0, Y0) is the top left corner and
// (X1, Y1) the bottom right one.
type Rectangle struct {
	X0, Y0, X1, Y1 float64
}

// Dx returns the width of the rectangle.
func (r Rectangle) Dx() float64 {
	return r.X1 - r.X0
}

// Dy returns the height of the rectangle.
func (r Rectangle) Dy() float64 {
	return r.Y1 - r.Y0
}

// Area returns the area of the rectangle, or zero if it is degenerate.
func (r Rectangle) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Empty reports whether the rectangle encloses no area. Rectangles with inverted or NaN corners
// are empty.
func (r Rectangle) Empty() bool {
	// written so that NaN compares as empty.
	return !(r.X0 < r.X1 && r.Y0 < r.Y1)
}

// Clamp returns the rectangle with every coordinate moved into [0,width]x[0,height].
func (r Rectangle) Clamp(width, height float64) Rectangle {
	return Rectangle{
		X0: clamp(r.X0, 0, width),
		Y0: clamp(r.Y0, 0, height),
		X1: clamp(r.X1, 0, width),
		Y1: clamp(r.Y1, 0, height),
	}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.X0, r.Y0, r.X1, r.Y1)
}

// clamp leaves NaN untouched so callers can still tell the value was invalid.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Min(math.Max(v, lo), hi)
}

// Detection is one object as reported by a Detector, before it is fitted to the image.
type Detection struct {
	ClassName string
	// ClassID is the model's numeric label, if it has one. Only Label leaves the process.
	ClassID *int
	Rect    Rectangle
	// Confidence is nil when the detector does not score its output.
	Confidence *float64
}

// NewDetection returns a scored detection.
func NewDetection(className string, rect Rectangle, confidence float64) Detection {
	return Detection{ClassName: className, Rect: rect, Confidence: &confidence}
}

// Score returns the confidence of the detection and whether it has one.
func (d Detection) Score() (float64, bool) {
	if d.Confidence == nil {
		return 0, false
	}
	return *d.Confidence, true
}

// Label is the class name of the detection. A detection that only carries a ClassID is labelled
// with the number itself.
func (d Detection) Label() string {
	if d.ClassName == "" && d.ClassID != nil {
		return strconv.Itoa(*d.ClassID)
	}
	return d.ClassName
}

func (d Detection) String() string {
	if score, ok := d.Score(); ok {
		return fmt.Sprintf("%s %v score=%.3f", d.Label(), d.Rect, score)
	}
	return fmt.Sprintf("%s %v", d.Label(), d.Rect)
}
