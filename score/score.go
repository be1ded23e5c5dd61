// Package score reads and writes score files in YAML or JSON.
package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jsphweid/hummix/model"
)

var ErrUnknownFormat = errors.New("unknown score format")

type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func Encode(s model.Score, format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(s)
	case JSON:
		return json.MarshalIndent(s, "", "  ")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Decode parses and validates a score.
func Decode(data []byte, format Format) (model.Score, error) {
	var s model.Score
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return model.Score{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case JSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return model.Score{}, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return model.Score{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return s, s.Validate()
}

func Load(path string) (model.Score, error) {
	format, err := FormatFor(path)
	if err != nil {
		return model.Score{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Score{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return Decode(data, format)
}

func Save(path string, s model.Score) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(s, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
