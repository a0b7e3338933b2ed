package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BCAT_CONFIG is set
//  3. env (prefix BCAT_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BCAT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: BCAT_ADDR, BCAT_MAX_REQUESTS_PER_MIN, ...
	// mapped to the flat koanf keys on the struct.
	envProvider := env.Provider("BCAT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "bcat_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate performs structural checks; table semantics (permutations,
// positive multipliers) are validated by the engine at construction.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return errors.New("request_timeout_seconds must be positive")
	}
	if c.MaxRequestsPerMin <= 0 {
		return errors.New("max_requests_per_min must be positive")
	}
	if len(c.Patterns) == 0 {
		return errors.New("pattern catalog must not be empty")
	}
	if len(c.Weights) == 0 {
		return errors.New("weight table must not be empty")
	}
	return nil
}
