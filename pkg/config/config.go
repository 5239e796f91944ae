// Package config provides unified configuration for the gemini proxy.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix fields)
//  5. Validation
//
// The loaded Config is treated as immutable and passed explicitly to the
// components that need it.
package config

import "time"

// Config holds all configuration for the gemini proxy.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Engine        EngineConfig        `yaml:"engine"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 10000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 0, slow upstream calls are waited out
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
	MaxBodySize     int64         `yaml:"max_body_size"`    // bytes, default: 10 MiB
}

// UpstreamConfig holds the Gemini endpoint settings.
type UpstreamConfig struct {
	BaseURL    string        `yaml:"base_url"`     // default: public v1 endpoint
	APIKey     string        `yaml:"api_key"`      // sent as the "key" query parameter
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	Timeout    time.Duration `yaml:"timeout"`      // 0 means no client-side deadline
}

// EngineConfig holds translation settings.
type EngineConfig struct {
	DefaultModel string `yaml:"default_model"` // default: "gemini-pro"
}

// AuthConfig holds inbound authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"`     // "none" or "apikey", default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"` // API key entries for type=apikey
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key" json:"key"`
	KeyFile string `yaml:"key_file" json:"key_file"` // _file variant for key
	Subject string `yaml:"subject" json:"subject"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: false
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds slog and debug category settings. PROXY_LOG_LEVEL
// and PROXY_DEBUG take precedence over these values.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // DEBUG, INFO, WARN, ERROR, TRACE; default: INFO
	Format string `yaml:"format"` // "text" or "json", default: "text"
	Debug  string `yaml:"debug"`  // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            10000,
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodySize:     10 << 20,
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1",
		},
		Engine: EngineConfig{
			DefaultModel: "gemini-pro",
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Path: "/metrics",
			},
			Logging: LoggingConfig{
				Level:  "INFO",
				Format: "text",
			},
		},
	}
}
