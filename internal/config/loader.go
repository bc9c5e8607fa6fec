package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "EMOPULSE_"
	envConfig = "EMOPULSE_CONFIG"
	envPort   = "PORT"
)

var validate = validator.New()

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if EMOPULSE_CONFIG is set
//  3. env (prefix EMOPULSE_)
//  4. PORT
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// EMOPULSE_MAX_BODY_BYTES -> max_body_bytes (flat keys, underscores kept).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Plain PORT wins over EMOPULSE_PORT; every other PORT* variable is skipped.
	portProvider := env.Provider(envPort, ".", func(s string) string {
		if s == envPort {
			return "port"
		}
		return ""
	})
	if err := k.Load(portProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.DemoProxyEnabled && cfg.DemoProxyTarget == "" {
		return nil, fmt.Errorf("%w: demo_proxy_target must be set when demo_proxy_enabled is true", ErrInvalidConfig)
	}
	return &cfg, nil
}
