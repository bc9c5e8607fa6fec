// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and the environment on top.
// - Loaded values are validated with struct tags before they are handed out.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Host and Port configure the HTTP listen address. PORT in the
	// environment overrides Port.
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Version is reported by GET /api/health.
	Version string `koanf:"version" validate:"required"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`

	// CORSAllowOrigin is sent as Access-Control-Allow-Origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin" validate:"required"`

	// RequestLogging enables the per-request access log line.
	RequestLogging bool `koanf:"request_logging"`

	// UsageQueueSize bounds the in-memory usage queue.
	UsageQueueSize int `koanf:"usage_queue_size" validate:"gt=0"`

	// UsageWorkerCount sets the number of usage workers.
	UsageWorkerCount int `koanf:"usage_worker_count" validate:"gt=0"`

	// UsageDedupeSize sets how many request ids are remembered.
	UsageDedupeSize int `koanf:"usage_dedupe_size" validate:"gte=0"`

	// DemoProxyEnabled mounts the /demo reverse proxy.
	DemoProxyEnabled bool `koanf:"demo_proxy_enabled"`

	// DemoProxyTarget is the upstream base URL of the demo service.
	DemoProxyTarget string `koanf:"demo_proxy_target" validate:"omitempty,url"`

	// DemoProxyTimeoutMS bounds each upstream round trip.
	DemoProxyTimeoutMS int `koanf:"demo_proxy_timeout_ms" validate:"gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Host:               "",
		Port:               8080,
		Version:            "0.1.0",
		MaxBodyBytes:       100 << 10,
		CORSAllowOrigin:    "*",
		RequestLogging:     true,
		UsageQueueSize:     10_000,
		UsageWorkerCount:   2,
		UsageDedupeSize:    50_000,
		DemoProxyEnabled:   false,
		DemoProxyTarget:    "",
		DemoProxyTimeoutMS: 10_000,
	}
}

// Addr returns the listen address, e.g. ":8080".
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DemoProxyTimeout returns the upstream timeout as a duration.
func (c *Config) DemoProxyTimeout() time.Duration {
	return time.Duration(c.DemoProxyTimeoutMS) * time.Millisecond
}
