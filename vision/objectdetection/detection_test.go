package objectdetection

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"go.viam.com/test"
	goutils "go.viam.com/utils"

	"go.viam.com/detectd/rimage"
)

func whiteRaster(w, h int) *rimage.Raster {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return rimage.NewRaster(img, "png")
}

func fillRect(r *rimage.Raster, rect image.Rectangle) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.Pixels.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
}

func TestRectangle(t *testing.T) {
	r := Rectangle{X0: -10, Y0: 50, X1: 40, Y1: 250}
	test.That(t, r.Clamp(100, 200), test.ShouldResemble, Rectangle{X0: 0, Y0: 50, X1: 40, Y1: 200})
	test.That(t, r.Clamp(100, 200).Area(), test.ShouldEqual, 6000.0)

	test.That(t, Rectangle{X0: 30, Y0: 30, X1: 30, Y1: 80}.Empty(), test.ShouldBeTrue)
	test.That(t, Rectangle{X0: 40, Y0: 30, X1: 30, Y1: 80}.Empty(), test.ShouldBeTrue)
	test.That(t, Rectangle{X0: math.NaN(), Y0: 30, X1: 30, Y1: 80}.Empty(), test.ShouldBeTrue)
	test.That(t, Rectangle{X0: 30, Y0: 30, X1: 30, Y1: 80}.Area(), test.ShouldEqual, 0.0)
	test.That(t, math.IsNaN(Rectangle{X0: math.NaN()}.Clamp(10, 10).X0), test.ShouldBeTrue)
}

func TestDetectionScore(t *testing.T) {
	d := NewDetection("dog", Rectangle{X1: 1, Y1: 1}, 0.25)
	score, ok := d.Score()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, score, test.ShouldEqual, 0.25)
	test.That(t, d.String(), test.ShouldContainSubstring, "score=0.250")

	_, ok = Detection{ClassName: "dog"}.Score()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestFixedDetector(t *testing.T) {
	dets, err := NewFixedDetector().Detect(context.Background(), whiteRaster(100, 200))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 2)
	test.That(t, dets[0].ClassName, test.ShouldEqual, "person")
	test.That(t, dets[0].Rect.X0, test.ShouldAlmostEqual, 10)
	test.That(t, dets[0].Rect.Y0, test.ShouldAlmostEqual, 40)
	test.That(t, dets[0].Rect.X1, test.ShouldAlmostEqual, 40)
	test.That(t, dets[0].Rect.Y1, test.ShouldAlmostEqual, 160)
	test.That(t, dets[1].ClassName, test.ShouldEqual, "car")
	test.That(t, dets[1].Rect.X0, test.ShouldAlmostEqual, 50)
	test.That(t, dets[1].Rect.Y1, test.ShouldAlmostEqual, 140)
	test.That(t, dets[0].Confidence, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFixedDetector().Detect(ctx, whiteRaster(10, 10))
	test.That(t, err, test.ShouldBeError, context.Canceled)
}

func TestSimpleDetector(t *testing.T) {
	raster := whiteRaster(50, 40)
	fillRect(raster, image.Rect(5, 5, 15, 10))
	fillRect(raster, image.Rect(30, 20, 31, 21))

	dets, err := NewSimpleDetector(10).Detect(context.Background(), raster)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 2)
	test.That(t, dets[0].ClassName, test.ShouldEqual, SimpleDetectorLabel)
	test.That(t, dets[0].Rect, test.ShouldResemble, Rectangle{X0: 5, Y0: 5, X1: 15, Y1: 10})
	test.That(t, dets[1].Rect, test.ShouldResemble, Rectangle{X0: 30, Y0: 20, X1: 31, Y1: 21})

	dets, err = NewSimpleDetector(10).Detect(context.Background(), whiteRaster(8, 8))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldBeEmpty)
}

type closingDetector struct {
	Detector
	closed bool
}

func (c *closingDetector) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func TestBuild(t *testing.T) {
	_, err := Build(nil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must have a Detector")

	failing := DetectorFunc(func(context.Context, *rimage.Raster) ([]Detection, error) {
		return nil, errors.New("detector error")
	})
	pipeline, err := Build(failing, NewScoreFilter(0.5))
	test.That(t, err, test.ShouldBeNil)
	_, err = pipeline.Detect(context.Background(), whiteRaster(4, 4))
	test.That(t, err.Error(), test.ShouldEqual, "detector error")

	inner := &closingDetector{Detector: DetectorFunc(func(context.Context, *rimage.Raster) ([]Detection, error) {
		return []Detection{
			NewDetection("cat", Rectangle{X1: 2, Y1: 2}, 0.9),
			NewDetection("dog", Rectangle{X1: 2, Y1: 2}, 0.2),
			{ClassName: "cat", Rect: Rectangle{X1: 1, Y1: 1}},
			NewDetection("bird", Rectangle{X1: 3, Y1: 3}, 0.8),
		}, nil
	})}
	pipeline, err = Build(inner, NewScoreFilter(0.5), NewLabelFilter([]string{"cat", "bird"}))
	test.That(t, err, test.ShouldBeNil)
	dets, err := pipeline.Detect(context.Background(), whiteRaster(4, 4))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 3)
	test.That(t, dets[0].ClassName, test.ShouldEqual, "cat")
	test.That(t, dets[1].Confidence, test.ShouldBeNil)
	test.That(t, dets[2].ClassName, test.ShouldEqual, "bird")

	test.That(t, goutils.TryClose(context.Background(), pipeline), test.ShouldBeNil)
	test.That(t, inner.closed, test.ShouldBeTrue)

	same, err := Build(inner)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same, test.ShouldEqual, inner)
}

func TestPostprocessors(t *testing.T) {
	in := []Detection{
		NewDetection("a", Rectangle{X1: 10, Y1: 10}, 0.1),
		NewDetection("b", Rectangle{X1: 2, Y1: 2}, 0.9),
		NewDetection("c", Rectangle{X1: 5, Y1: 5}, 0.5),
	}
	test.That(t, NewAreaFilter(25)(in), test.ShouldResemble, []Detection{in[0], in[2]})
	test.That(t, NewScoreFilter(0.5)(in), test.ShouldResemble, []Detection{in[1], in[2]})
	test.That(t, NewLabelFilter(nil)(in), test.ShouldResemble, in)
	test.That(t, NewLabelFilter([]string{"c", "a"})(in), test.ShouldResemble, []Detection{in[0], in[2]})
}

func TestClassNameResolver(t *testing.T) {
	zero, five, negative := 0, 5, -1
	in := []Detection{
		{ClassID: &zero, Rect: Rectangle{X1: 1, Y1: 1}},
		{ClassID: &five, Rect: Rectangle{X1: 1, Y1: 1}},
		{ClassName: "kept", ClassID: &zero, Rect: Rectangle{X1: 1, Y1: 1}},
		{ClassID: &negative, Rect: Rectangle{X1: 1, Y1: 1}},
	}
	out := NewClassNameResolver([]string{"person", "car"})(in)
	test.That(t, out, test.ShouldHaveLength, 4)
	test.That(t, out[0].ClassName, test.ShouldEqual, "person")
	test.That(t, out[1].ClassName, test.ShouldEqual, "")
	test.That(t, out[1].Label(), test.ShouldEqual, "5")
	test.That(t, out[2].ClassName, test.ShouldEqual, "kept")
	test.That(t, out[3].Label(), test.ShouldEqual, "-1")
	test.That(t, in[0].ClassName, test.ShouldEqual, "")

	labelled := NewLabelFilter([]string{"5"})(out)
	test.That(t, labelled, test.ShouldHaveLength, 1)
	test.That(t, *labelled[0].ClassID, test.ShouldEqual, 5)

	test.That(t, Detection{}.Label(), test.ShouldEqual, "")
}
