package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Read reads a config from the given file. Environment variables referenced as $VAR or ${VAR}
// are substituted before parsing.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from. Keys that are not set keep their
// defaults.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	var attrs map[string]interface{}
	if err := json.NewDecoder(r).Decode(&attrs); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}

	cfg := Default()
	cfg.ConfigFilePath = originalPath
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     cfg,
		Metadata:   &md,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "failed to process Config")
	}
	if len(md.Unused) > 0 {
		return nil, errors.Errorf("unknown config keys: %v", md.Unused)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
