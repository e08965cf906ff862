package core

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// LoadManifest reads and validates a TOML endpoint manifest.
func LoadManifest(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	return ParseManifest(b)
}

// ParseManifest decodes TOML manifest bytes. Unknown keys are rejected.
func ParseManifest(b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return manifest.Config{}, fmt.Errorf("manifest: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, fmt.Errorf("manifest: %w", err)
	}
	return cfg, nil
}
