package config

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/detectd/logging"
	"go.viam.com/detectd/rimage"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.Server.Address, test.ShouldEqual, ":50051")
	test.That(t, cfg.Detector.Type, test.ShouldEqual, DetectorTypeFixed)
	test.That(t, cfg.RecvMsgLimit(), test.ShouldBeGreaterThan, rimage.DefaultMaxImageBytes)

	svc := cfg.InferenceConfig()
	test.That(t, svc.Workers, test.ShouldEqual, 4)
	test.That(t, svc.QueueDepth, test.ShouldEqual, 16)
	test.That(t, svc.RequestTimeout, test.ShouldEqual, 30*time.Second)
	test.That(t, svc.Decoder, test.ShouldResemble, rimage.DefaultDecodeOptions())
}

func TestRead(t *testing.T) {
	t.Setenv("DETECTD_REMOTE", "models.internal:50051")
	path := filepath.Join(t.TempDir(), "detectd.json")
	test.That(t, os.WriteFile(path, []byte(`{
		"server": {"address": "localhost:9000", "graceful_stop_timeout": "2s", "max_recv_msg_bytes": 20000000},
		"service": {"workers": 2, "queue_depth": 0, "request_timeout": "1.5s"},
		"decoder": {"max_pixels": 1000000},
		"detector": {
			"type": "remote",
			"min_score": 0.5,
			"labels": ["person"],
			"remote": {"address": "${DETECTD_REMOTE}", "max_retries": 5, "retry_delay": "250ms"}
		},
		"log": {"level": "debug", "format": "json"}
	}`), 0o600), test.ShouldBeNil)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, cfg.Server.Address, test.ShouldEqual, "localhost:9000")
	test.That(t, cfg.Server.GracefulStopTimeout, test.ShouldEqual, 2*time.Second)
	test.That(t, cfg.Server.Reflection, test.ShouldBeTrue)
	test.That(t, cfg.RecvMsgLimit(), test.ShouldEqual, 20000000)
	test.That(t, cfg.Service.Workers, test.ShouldEqual, 2)
	test.That(t, cfg.Service.QueueDepth, test.ShouldEqual, 0)
	test.That(t, cfg.Service.RequestTimeout, test.ShouldEqual, 1500*time.Millisecond)
	test.That(t, cfg.Decoder.MaxPixels, test.ShouldEqual, 1000000)
	test.That(t, cfg.Decoder.MaxBytes, test.ShouldEqual, rimage.DefaultMaxImageBytes)
	test.That(t, cfg.Detector.Type, test.ShouldEqual, DetectorTypeRemote)
	test.That(t, cfg.Detector.MinScore, test.ShouldEqual, 0.5)
	test.That(t, cfg.Detector.Labels, test.ShouldResemble, []string{"person"})
	test.That(t, cfg.Detector.Remote, test.ShouldResemble, &RemoteConfig{
		Address:    "models.internal:50051",
		MaxRetries: 5,
		RetryDelay: 250 * time.Millisecond,
	})
	test.That(t, cfg.Log, test.ShouldResemble, logging.Config{Level: "debug", Format: "json"})
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("", strings.NewReader(`{"server": `))
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode Config from json")

	_, err = FromReader("", strings.NewReader(`{"servr": {}}`))
	test.That(t, err.Error(), test.ShouldContainSubstring, "servr")

	_, err = FromReader("", strings.NewReader(`{"service": {"request_timeout": "soon"}}`))
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to process Config")

	_, err = FromReader("", strings.NewReader(`{"service": {"workers": 0}, "detector": {"type": "magic"}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "workers must be at least 1")
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown detector type "magic"`)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(cfg *Config)
		errMsg string
	}{
		{"no address", func(cfg *Config) { cfg.Server.Address = "" }, "server.address"},
		{"small recv limit", func(cfg *Config) { cfg.Server.MaxRecvMsgBytes = 10 }, "smaller than decoder.max_image_bytes"},
		{"negative pixels", func(cfg *Config) { cfg.Decoder.MaxPixels = -1 }, "decoder.max_pixels"},
		{"negative queue", func(cfg *Config) { cfg.Service.QueueDepth = -1 }, "queue depth"},
		{"no timeout", func(cfg *Config) { cfg.Service.RequestTimeout = 0 }, "request timeout"},
		{"remote without address", func(cfg *Config) { cfg.Detector.Type = DetectorTypeRemote }, "detector.remote.address"},
		{"bad threshold", func(cfg *Config) {
			cfg.Detector.Type = DetectorTypeSimple
			cfg.Detector.SimpleThreshold = 300
		}, "detector.threshold"},
		{"bad score", func(cfg *Config) { cfg.Detector.MinScore = 1.5 }, "detector.min_score"},
		{"empty label", func(cfg *Config) { cfg.Detector.Labels = []string{"car", ""} }, "detector.labels.1"},
		{"empty class name", func(cfg *Config) { cfg.Detector.ClassNames = []string{""} }, "detector.class_names.0"},
		{"bad log level", func(cfg *Config) { cfg.Log.Level = "loud" }, "log.level"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errMsg)
		})
	}
}

func TestNewDetector(t *testing.T) {
	logger := logging.NewTestLogger(t)
	white := image.NewNRGBA(image.Rect(0, 0, 100, 200))
	for i := range white.Pix {
		white.Pix[i] = 255
	}
	raster := rimage.NewRaster(white, "png")

	det, err := NewDetector(DetectorConfig{Type: DetectorTypeFixed}, logger)
	test.That(t, err, test.ShouldBeNil)
	dets, err := det.Detect(context.Background(), raster)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 2)

	det, err = NewDetector(DetectorConfig{Type: DetectorTypeFixed, Labels: []string{"car"}}, logger)
	test.That(t, err, test.ShouldBeNil)
	dets, err = det.Detect(context.Background(), raster)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 1)
	test.That(t, dets[0].ClassName, test.ShouldEqual, "car")

	// named detections pass the class name mapping untouched.
	det, err = NewDetector(DetectorConfig{Type: DetectorTypeFixed, ClassNames: []string{"dog", "cat"}}, logger)
	test.That(t, err, test.ShouldBeNil)
	dets, err = det.Detect(context.Background(), raster)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 2)
	test.That(t, dets[0].ClassName, test.ShouldEqual, "person")

	// the person box is 30x120, the car box 40x80.
	det, err = NewDetector(DetectorConfig{Type: DetectorTypeFixed, MinArea: 3300}, logger)
	test.That(t, err, test.ShouldBeNil)
	dets, err = det.Detect(context.Background(), raster)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 1)
	test.That(t, dets[0].ClassName, test.ShouldEqual, "person")

	det, err = NewDetector(DetectorConfig{Type: DetectorTypeSimple, SimpleThreshold: DefaultSimpleThreshold}, logger)
	test.That(t, err, test.ShouldBeNil)
	dets, err = det.Detect(context.Background(), raster)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldBeEmpty)

	_, err = NewDetector(DetectorConfig{Type: "magic"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewRemoteDetector(t *testing.T) {
	det, err := NewDetector(DetectorConfig{
		Type:   DetectorTypeRemote,
		Remote: &RemoteConfig{Address: "localhost:1"},
	}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	closer, ok := det.(interface{ Close(context.Context) error })
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, closer.Close(context.Background()), test.ShouldBeNil)
}
