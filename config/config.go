// Package config defines the structures to configure a detectd server and the detector it runs.
package config

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/detectd/logging"
	"go.viam.com/detectd/rimage"
	"go.viam.com/detectd/services/inference"
)

// DefaultAddress is where the server listens when no address is configured.
const DefaultAddress = ":50051"

// DefaultGracefulStopTimeout bounds how long shutdown waits for in progress requests.
const DefaultGracefulStopTimeout = 10 * time.Second

// recvMsgOverhead leaves room for the protobuf framing around the largest accepted image.
const recvMsgOverhead = 1 << 16

// Config describes the configuration of a detectd server.
type Config struct {
	ConfigFilePath string `json:"-"`

	Server   ServerConfig         `json:"server"`
	Service  ServiceConfig        `json:"service"`
	Decoder  rimage.DecodeOptions `json:"decoder"`
	Detector DetectorConfig       `json:"detector"`
	Log      logging.Config       `json:"log"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	Address             string        `json:"address"`
	GracefulStopTimeout time.Duration `json:"graceful_stop_timeout"`
	Reflection          bool          `json:"reflection"`
	TraceSpans          bool          `json:"trace_spans"`
	// MaxRecvMsgBytes is the largest message the server accepts. Zero sizes it to the decoder's
	// byte limit so oversized images reach the decoder and are reported as invalid.
	MaxRecvMsgBytes int `json:"max_recv_msg_bytes"`
}

// ServiceConfig sizes the inference worker pool.
type ServiceConfig struct {
	Workers        int           `json:"workers"`
	QueueDepth     int           `json:"queue_depth"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	svc := inference.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Address:             DefaultAddress,
			GracefulStopTimeout: DefaultGracefulStopTimeout,
			Reflection:          true,
		},
		Service: ServiceConfig{
			Workers:        svc.Workers,
			QueueDepth:     svc.QueueDepth,
			RequestTimeout: svc.RequestTimeout,
		},
		Decoder:  rimage.DefaultDecodeOptions(),
		Detector: DetectorConfig{Type: DetectorTypeFixed, SimpleThreshold: DefaultSimpleThreshold},
		Log:      logging.Config{Level: "info", Format: logging.FormatConsole},
	}
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (c *Config) Validate() error {
	var err error
	if c.Server.Address == "" {
		err = multierr.Append(err, errors.New("server.address: must be set"))
	}
	if c.Server.GracefulStopTimeout < 0 {
		err = multierr.Append(err, errors.New("server.graceful_stop_timeout: cannot be negative"))
	}
	if c.Server.MaxRecvMsgBytes < 0 {
		err = multierr.Append(err, errors.New("server.max_recv_msg_bytes: cannot be negative"))
	} else if c.Server.MaxRecvMsgBytes != 0 && c.Server.MaxRecvMsgBytes < c.Decoder.MaxBytes {
		err = multierr.Append(err, errors.Errorf(
			"server.max_recv_msg_bytes: %d is smaller than decoder.max_image_bytes %d",
			c.Server.MaxRecvMsgBytes, c.Decoder.MaxBytes))
	}
	if c.Decoder.MaxBytes < 0 {
		err = multierr.Append(err, errors.New("decoder.max_image_bytes: cannot be negative"))
	}
	if c.Decoder.MaxPixels < 0 {
		err = multierr.Append(err, errors.New("decoder.max_pixels: cannot be negative"))
	}
	if svcErr := c.InferenceConfig().Validate(); svcErr != nil {
		err = multierr.Append(err, errors.Wrap(svcErr, "service"))
	}
	err = multierr.Append(err, c.Detector.Validate("detector"))
	err = multierr.Append(err, c.Log.Validate("log"))
	return err
}

// InferenceConfig returns the settings for the inference service.
func (c *Config) InferenceConfig() inference.Config {
	return inference.Config{
		Workers:        c.Service.Workers,
		QueueDepth:     c.Service.QueueDepth,
		RequestTimeout: c.Service.RequestTimeout,
		Decoder:        c.Decoder,
	}
}

// RecvMsgLimit returns the largest gRPC message the server should accept.
func (c *Config) RecvMsgLimit() int {
	if c.Server.MaxRecvMsgBytes > 0 {
		return c.Server.MaxRecvMsgBytes
	}
	maxBytes := c.Decoder.MaxBytes
	if maxBytes <= 0 {
		maxBytes = rimage.DefaultMaxImageBytes
	}
	return maxBytes + recvMsgOverhead
}
