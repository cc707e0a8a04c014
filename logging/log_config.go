package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats understood by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes where and how verbosely a process logs.
type Config struct {
	Level  string      `json:"level"`
	Format string      `json:"format"`
	File   *FileConfig `json:"file,omitempty"`
}

// FileConfig enables a rotating json log file next to stdout output.
type FileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// Validate ensures all parts of the config are valid.
func (cfg Config) Validate(path string) error {
	if cfg.Level != "" {
		if _, err := zapcore.ParseLevel(cfg.Level); err != nil {
			return errors.Wrapf(err, "%s.level", path)
		}
	}
	switch cfg.Format {
	case "", FormatConsole, FormatJSON:
	default:
		return errors.Errorf("%s.format: unknown log format %q", path, cfg.Format)
	}
	if cfg.File != nil && cfg.File.Path == "" {
		return errors.Errorf("%s.file.path: must be set when file logging is enabled", path)
	}
	return nil
}

// NewLoggerFromConfig builds a logger honoring the level, format and optional rolling file
// output in cfg.
func NewLoggerFromConfig(name string, cfg Config) (Logger, error) {
	if err := cfg.Validate("log"); err != nil {
		return nil, err
	}
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		//nolint:errcheck
		lvl, _ = zapcore.ParseLevel(cfg.Level)
	}
	level := zap.NewAtomicLevelAt(lvl)

	var extra []zapcore.Core
	if cfg.File != nil {
		writer := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
			LocalTime:  true,
		}
		extra = append(extra, zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), zapcore.AddSync(writer), level))
	}
	return newImpl(name, level, cfg.Format, extra...), nil
}
