package config

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/detectd/logging"
	"go.viam.com/detectd/services/inference"
	"go.viam.com/detectd/vision/objectdetection"
)

// Detector types.
const (
	DetectorTypeFixed  = "fixed"
	DetectorTypeSimple = "simple"
	DetectorTypeRemote = "remote"
)

// DefaultSimpleThreshold is the luminance below which the simple detector treats a pixel as part
// of an object.
const DefaultSimpleThreshold = 64.

// DetectorConfig selects the detector the server runs and the filters applied to its output.
type DetectorConfig struct {
	Type string `json:"type"`
	// SimpleThreshold only applies to the simple detector.
	SimpleThreshold float64  `json:"threshold"`
	MinScore        float64  `json:"min_score"`
	MinArea         float64  `json:"min_area"`
	Labels          []string `json:"labels"`
	// ClassNames maps the class ids a model reports to names, by index.
	ClassNames []string      `json:"class_names"`
	Remote     *RemoteConfig `json:"remote,omitempty"`
}

// RemoteConfig points the remote detector at another inference service.
type RemoteConfig struct {
	Address     string        `json:"address"`
	Timeout     time.Duration `json:"timeout"`
	MaxRetries  int           `json:"max_retries"`
	RetryDelay  time.Duration `json:"retry_delay"`
	BreakerName string        `json:"breaker_name"`
}

// Validate ensures all parts of the config are valid.
func (cfg DetectorConfig) Validate(path string) error {
	var err error
	switch cfg.Type {
	case DetectorTypeFixed:
	case DetectorTypeSimple:
		if cfg.SimpleThreshold <= 0 || cfg.SimpleThreshold > 256 {
			err = multierr.Append(err, errors.Errorf("%s.threshold: must be in (0, 256], got %v", path, cfg.SimpleThreshold))
		}
	case DetectorTypeRemote:
		if cfg.Remote == nil || cfg.Remote.Address == "" {
			err = multierr.Append(err, errors.Errorf("%s.remote.address: must be set for a remote detector", path))
		} else if cfg.Remote.Timeout < 0 || cfg.Remote.RetryDelay < 0 {
			err = multierr.Append(err, errors.Errorf("%s.remote: durations cannot be negative", path))
		}
	default:
		err = multierr.Append(err, errors.Errorf("%s.type: unknown detector type %q", path, cfg.Type))
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		err = multierr.Append(err, errors.Errorf("%s.min_score: must be in [0, 1], got %v", path, cfg.MinScore))
	}
	if cfg.MinArea < 0 {
		err = multierr.Append(err, errors.Errorf("%s.min_area: cannot be negative", path))
	}
	for i, label := range cfg.Labels {
		if label == "" {
			err = multierr.Append(err, errors.Errorf("%s.labels.%d: cannot be empty", path, i))
		}
	}
	for i, name := range cfg.ClassNames {
		if name == "" {
			err = multierr.Append(err, errors.Errorf("%s.class_names.%d: cannot be empty", path, i))
		}
	}
	return err
}

// NewDetector builds the configured detector and its filters.
func NewDetector(cfg DetectorConfig, logger logging.Logger) (objectdetection.Detector, error) {
	if err := cfg.Validate("detector"); err != nil {
		return nil, err
	}
	var det objectdetection.Detector
	switch cfg.Type {
	case DetectorTypeFixed:
		det = objectdetection.NewFixedDetector()
	case DetectorTypeSimple:
		det = objectdetection.NewSimpleDetector(cfg.SimpleThreshold)
	case DetectorTypeRemote:
		var err error
		det, err = inference.NewRemoteDetector(inference.ClientConfig{
			Address:     cfg.Remote.Address,
			Timeout:     cfg.Remote.Timeout,
			MaxRetries:  cfg.Remote.MaxRetries,
			RetryDelay:  cfg.Remote.RetryDelay,
			BreakerName: cfg.Remote.BreakerName,
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	var posts []objectdetection.Postprocessor
	if len(cfg.ClassNames) > 0 {
		posts = append(posts, objectdetection.NewClassNameResolver(cfg.ClassNames))
	}
	if cfg.MinScore > 0 {
		posts = append(posts, objectdetection.NewScoreFilter(cfg.MinScore))
	}
	if cfg.MinArea > 0 {
		posts = append(posts, objectdetection.NewAreaFilter(cfg.MinArea))
	}
	if len(cfg.Labels) > 0 {
		posts = append(posts, objectdetection.NewLabelFilter(cfg.Labels))
	}
	if len(posts) == 0 {
		return det, nil
	}
	return objectdetection.Build(det, posts...)
}
