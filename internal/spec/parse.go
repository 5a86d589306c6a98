package spec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseConfig decodes a single YAML document into a Config. Unknown fields
// and trailing documents are rejected.
func ParseConfig(data []byte) (Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	switch err := decoder.Decode(&struct{}{}); {
	case err == nil:
		return Config{}, errors.New("parse config: multiple YAML documents are not supported")
	case err != io.EOF:
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
