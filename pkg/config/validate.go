package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// reservedPaths cannot host the metrics endpoint.
var reservedPaths = map[string]bool{
	"/":                    true,
	"/v1/models":           true,
	"/v1/chat/completions": true,
}

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be >= 0, got %v", c.Server.ReadTimeout))
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be >= 0, got %v", c.Server.WriteTimeout))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be >= 0, got %v", c.Server.ShutdownTimeout))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	// upstream.base_url must be an absolute http(s) URL.
	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.base_url must be an absolute http(s) URL, got %q", c.Upstream.BaseURL))
	}
	if c.Upstream.Timeout < 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must be >= 0, got %v", c.Upstream.Timeout))
	}

	if strings.TrimSpace(c.Engine.DefaultModel) == "" {
		errs = append(errs, fmt.Errorf("engine.default_model must not be empty"))
	}

	switch c.Auth.Type {
	case "none":
		// valid
	case "apikey":
		if len(c.Auth.APIKeys) == 0 {
			errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
		}
		for i, k := range c.Auth.APIKeys {
			if k.Key == "" {
				errs = append(errs, fmt.Errorf("auth.api_keys[%d].key or key_file is required", i))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\" or \"apikey\", got %q", c.Auth.Type))
	}

	if m := c.Observability.Metrics; m.Enabled {
		if !strings.HasPrefix(m.Path, "/") {
			errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", m.Path))
		} else if reservedPaths[m.Path] {
			errs = append(errs, fmt.Errorf("observability.metrics.path %q collides with an API route", m.Path))
		}
	}

	switch c.Observability.Logging.Format {
	case "text", "json", "":
		// valid
	default:
		errs = append(errs, fmt.Errorf("observability.logging.format must be \"text\" or \"json\", got %q", c.Observability.Logging.Format))
	}

	return errors.Join(errs...)
}
