package config

import (
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/rgbdcapture/rimage/transform"
)

// ReadWriterConfig reads a writer config from the given JSON file, which may use JSON5 comments
// and trailing commas. Environment variables in the file are expanded, and keys in overrides
// (e.g. from command line flags, dotted for nested fields) replace the values from the file.
// The result is validated.
func ReadWriterConfig(filePath string, overrides map[string]interface{}) (*WriterConfig, error) {
	cfg := NewWriterConfig()
	if err := readInto(filePath, overrides, cfg); err != nil {
		return nil, err
	}
	if cfg.Data.IntrinsicsFile != "" {
		intrinsicsPath := cfg.Data.IntrinsicsFile
		if !filepath.IsAbs(intrinsicsPath) {
			intrinsicsPath = filepath.Join(filepath.Dir(filePath), intrinsicsPath)
		}
		intrinsics, err := transform.NewPinholeCameraIntrinsicsFromJSONFile(intrinsicsPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read intrinsics_file")
		}
		cfg.Data.SetIntrinsics(*intrinsics)
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadReaderConfig reads a reader config from the given JSON file, like ReadWriterConfig.
func ReadReaderConfig(filePath string, overrides map[string]interface{}) (*ReaderConfig, error) {
	cfg := NewReaderConfig()
	if err := readInto(filePath, overrides, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeAttributes decodes a generic attribute map onto out, keeping the values already present
// in out for keys that are absent. Unknown keys are an error.
func DecodeAttributes(attributes map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(attributes)
}

func readInto(filePath string, overrides map[string]interface{}, out interface{}) error {
	attributes := map[string]interface{}{}
	if filePath != "" {
		buf, err := envsubst.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read config file %q", filePath)
		}
		if err := json5.Unmarshal(buf, &attributes); err != nil {
			return errors.Wrapf(err, "failed to decode config from json")
		}
	}
	for key, value := range overrides {
		setAttribute(attributes, key, value)
	}
	if err := DecodeAttributes(attributes, out); err != nil {
		return errors.Wrap(err, "failed to process config")
	}
	return nil
}

// setAttribute sets a possibly dotted key such as "data_config.data_dir", creating nested maps
// as needed.
func setAttribute(attributes map[string]interface{}, key string, value interface{}) {
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		attributes[key] = value
		return
	}
	child, ok := attributes[head].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		attributes[head] = child
	}
	setAttribute(child, rest, value)
}
