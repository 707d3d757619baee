package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SLIDEGALLERY_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SLIDEGALLERY_*). A double underscore
// separates nested keys: SLIDEGALLERY_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validSanitizePolicies = map[SanitizePolicy]bool{
	SanitizeTrusted: true,
	SanitizeUGC:     true,
	SanitizeStrict:  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Origin == "" {
		if !isAbsoluteURL(c.BaseURL) {
			return fmt.Errorf("origin is required unless base_url is an absolute URL")
		}
	} else if !isAbsoluteURL(c.Origin) {
		return fmt.Errorf("invalid origin %q: must be an absolute http(s) URL", c.Origin)
	}

	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
		}
	}

	if c.IndexPath == "" {
		return fmt.Errorf("index_path is required")
	}

	if c.MountID == "" {
		return fmt.Errorf("mount_id is required")
	}

	if c.Sanitize != "" && !validSanitizePolicies[c.Sanitize] {
		return fmt.Errorf("invalid sanitize %q: must be one of trusted, ugc, strict", c.Sanitize)
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream.timeout must be non-negative")
	}
	if c.Upstream.RateLimit < 0 {
		return fmt.Errorf("upstream.rate_limit must be non-negative")
	}
	if c.Upstream.Burst < 0 {
		return fmt.Errorf("upstream.burst must be non-negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	for _, pattern := range c.Fragments.Allow {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid fragments.allow pattern %q", pattern)
		}
	}

	if c.Check.Concurrency < 1 {
		return fmt.Errorf("check.concurrency must be at least 1")
	}

	return nil
}

// IndexRef is the unresolved index reference: base_url joined with index_path.
func (c *Config) IndexRef() string {
	return c.BaseURL + c.IndexPath
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
