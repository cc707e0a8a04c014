package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface handed to every component. It is a thin layer over
// zap's SugaredLogger so components can create named subloggers.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger whose name is suffixed with subname. It shares the level
	// and outputs of its parent.
	Sublogger(subname string) Logger
	SetLevel(level zapcore.Level)
	GetLevel() zapcore.Level
	Desugar() *zap.Logger
	Sync() error
}

type impl struct {
	*zap.SugaredLogger
	level zap.AtomicLevel
}

func newImpl(name string, level zap.AtomicLevel, format string, extra ...zapcore.Core) *impl {
	cores := append([]zapcore.Core{newStdoutCore(level, format)}, extra...)
	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &impl{SugaredLogger: zl.Sugar().Named(name), level: level}
}

func (imp *impl) Sublogger(subname string) Logger {
	return &impl{SugaredLogger: imp.SugaredLogger.Named(subname), level: imp.level}
}

func (imp *impl) SetLevel(level zapcore.Level) {
	imp.level.SetLevel(level)
}

func (imp *impl) GetLevel() zapcore.Level {
	return imp.level.Level()
}
