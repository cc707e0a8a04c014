// Package logging contains the zap backed loggers used by detectd.
package logging

import (
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var (
	globalMu     sync.RWMutex
	globalLogger = NewDebugLogger("startup")
)

// ReplaceGlobal replaces the global loggers.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Global returns the global logger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewEncoderConfig returns the encoder settings shared by every logger built here.
func NewEncoderConfig() zapcore.EncoderConfig {
	// from https://github.com/uber-go/zap/blob/2314926ec34c23ee21f3dd4399438469668f8097/config.go#L135
	// but use same keys as prod.
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func newStdoutCore(level zapcore.LevelEnabler, format string) zapcore.Core {
	encCfg := NewEncoderConfig()
	var enc zapcore.Encoder
	if format == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)
}

// NewLogger returns a new logger that outputs Info+ logs to stdout.
func NewLogger(name string) Logger {
	return newImpl(name, zap.NewAtomicLevelAt(zapcore.InfoLevel), FormatConsole)
}

// NewDebugLogger returns a new logger that outputs Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	return newImpl(name, zap.NewAtomicLevelAt(zapcore.DebugLevel), FormatConsole)
}

// NewBlankLogger returns a new logger that discards everything.
func NewBlankLogger(name string) Logger {
	return &impl{SugaredLogger: zap.NewNop().Sugar().Named(name), level: zap.NewAtomicLevel()}
}

// NewTestLogger returns a new logger that outputs Debug+ logs through the test's Log method.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	zl := zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel), zaptest.WrapOptions(
		zap.AddCaller(),
		zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, observerCore)
		}),
	))
	return &impl{SugaredLogger: zl.Sugar(), level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}, observedLogs
}
