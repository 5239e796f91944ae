package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig         = "PROXY_CONFIG"
	EnvUpstreamKey    = "GEMINI_KEY"
	EnvPort           = "PORT"
	EnvUpstreamURL    = "PROXY_UPSTREAM_URL"
	EnvDefaultModel   = "PROXY_DEFAULT_MODEL"
	EnvAuthType       = "PROXY_AUTH_TYPE"
	EnvAPIKeys        = "PROXY_API_KEYS"
	EnvMetricsEnabled = "PROXY_METRICS_ENABLED"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, PROXY_CONFIG env, ./config.yaml, /etc/gemini-proxy/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. PROXY_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/gemini-proxy/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv(EnvConfig); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/gemini-proxy/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
// Unparseable numeric or boolean values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvUpstreamKey); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv(EnvUpstreamURL); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv(EnvDefaultModel); v != "" {
		cfg.Engine.DefaultModel = v
	}
	if v := os.Getenv(EnvAuthType); v != "" {
		cfg.Auth.Type = v
	}
	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Observability.Metrics.Enabled = enabled
		}
	}

	// PROXY_API_KEYS: JSON array of API key configs.
	if v := os.Getenv(EnvAPIKeys); v != "" {
		keys, err := parseAPIKeysJSON(v)
		if err == nil && len(keys) > 0 {
			cfg.Auth.APIKeys = keys
		}
	}
}

// parseAPIKeysJSON parses a JSON array of API key configurations.
func parseAPIKeysJSON(jsonStr string) ([]APIKeyConfig, error) {
	var keys []APIKeyConfig
	if err := json.Unmarshal([]byte(jsonStr), &keys); err != nil {
		return nil, fmt.Errorf("parsing API keys JSON: %w", err)
	}
	return keys, nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// upstream.api_key_file -> upstream.api_key
	if cfg.Upstream.APIKeyFile != "" && cfg.Upstream.APIKey == "" {
		val, err := readSecretFile(cfg.Upstream.APIKeyFile)
		if err != nil {
			return fmt.Errorf("upstream.api_key_file: %w", err)
		}
		cfg.Upstream.APIKey = val
	}

	// auth.api_keys[*].key_file -> auth.api_keys[*].key
	for i := range cfg.Auth.APIKeys {
		if cfg.Auth.APIKeys[i].KeyFile != "" && cfg.Auth.APIKeys[i].Key == "" {
			val, err := readSecretFile(cfg.Auth.APIKeys[i].KeyFile)
			if err != nil {
				return fmt.Errorf("auth.api_keys[%d].key_file: %w", i, err)
			}
			cfg.Auth.APIKeys[i].Key = val
		}
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
