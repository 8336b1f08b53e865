// Package config loads CLI defaults from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults the certbundle CLI applies when the
// corresponding flags are not set.
type Config struct {
	// HashBits is the default signature hash strength for CSR
	// generation. Values below 256 select SHA-1.
	HashBits int `yaml:"hash_bits"`

	// Output is the default output path.
	Output string `yaml:"output"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{HashBits: 256}
}

// Load reads a YAML config file and applies it over the built-in
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes over the built-in defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.HashBits <= 0 {
		return nil, fmt.Errorf("hash_bits must be positive, got %d", cfg.HashBits)
	}
	return cfg, nil
}
