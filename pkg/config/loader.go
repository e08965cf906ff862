package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvFile names an optional YAML config file.
	EnvFile = "STEEZE_CONFIG"
	// EnvPrefix prefixes environment overrides, e.g. STEEZE_STORE_DRIVER.
	EnvPrefix = "STEEZE_"
)

// Load builds a Config by layering, low to high precedence: defaults, the
// YAML file named by STEEZE_CONFIG, then STEEZE_* environment variables.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(EnvFile))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// STEEZE_REDIS_ADDR -> redis_addr; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
