package inference_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/detectd/logging"
	"go.viam.com/detectd/services/inference"
	"go.viam.com/detectd/vision/objectdetection"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	test.That(t, png.Encode(&buf, img), test.ShouldBeNil)
	return buf.Bytes()
}

func newService(
	t *testing.T,
	cfg inference.Config,
	det objectdetection.Detector,
	logger logging.Logger,
) *inference.Service {
	t.Helper()
	svc, err := inference.NewService(cfg, det, logger)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, svc.Close(context.Background()), test.ShouldBeNil)
	})
	return svc
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
