package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeFile decodes a JSON or YAML config file, chosen by extension, onto
// cfg. Only keys present in the file change cfg. Unknown keys are rejected
// so that typos fail loudly instead of silently falling back to defaults.
// An empty file changes nothing.
func decodeFile(path string, cfg *StructuredConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error reading a config file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("error decoding yaml configs: %w", err)
		}
	case ".json", "":
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("error decoding json configs: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedConfigFile, ext)
	}

	return nil
}
