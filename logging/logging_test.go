package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Sublogger("decoder").Infow("decoded", "width", 100, "height", 200)
	logger.Debug("debug line")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entry := logs.All()[0]
	test.That(t, entry.Message, test.ShouldEqual, "decoded")
	test.That(t, entry.ContextMap()["width"], test.ShouldEqual, int64(100))
	test.That(t, logs.FilterMessage("debug line").Len(), test.ShouldEqual, 1)
}

func TestConfigValidate(t *testing.T) {
	test.That(t, Config{}.Validate("log"), test.ShouldBeNil)
	test.That(t, Config{Level: "debug", Format: FormatJSON}.Validate("log"), test.ShouldBeNil)

	err := Config{Level: "loud"}.Validate("log")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "log.level")

	err = Config{Format: "xml"}.Validate("log")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown log format")

	err = Config{File: &FileConfig{}}.Validate("log")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "log.file.path")
}

func TestNewLoggerFromConfigWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detectd.log")
	logger, err := NewLoggerFromConfig("detectd", Config{
		Level:  "warn",
		Format: FormatJSON,
		File:   &FileConfig{Path: path, MaxSizeMB: 1},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logger.GetLevel(), test.ShouldEqual, zapcore.WarnLevel)

	logger.Info("dropped")
	logger.Warnw("kept", "code", "RESOURCE_EXHAUSTED")
	// stdout cannot always be synced under go test; the file core writes through.
	//nolint:errcheck
	logger.Sync()

	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, `"msg":"kept"`)
	test.That(t, string(contents), test.ShouldNotContainSubstring, "dropped")

	logger.SetLevel(zapcore.InfoLevel)
	test.That(t, logger.GetLevel(), test.ShouldEqual, zapcore.InfoLevel)
}

func TestNewLoggerFromConfigRejectsInvalid(t *testing.T) {
	_, err := NewLoggerFromConfig("detectd", Config{Level: "nope"})
	test.That(t, err, test.ShouldNotBeNil)
}
