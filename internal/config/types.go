package config

import "time"

// SanitizePolicy selects how fragment markup is treated before embedding.
type SanitizePolicy string

const (
	SanitizeTrusted SanitizePolicy = "trusted"
	SanitizeUGC     SanitizePolicy = "ugc"
	SanitizeStrict  SanitizePolicy = "strict"
)

// Config is the top-level slidegallery configuration, corresponding to .slidegallery.yml.
type Config struct {
	Origin    string          `yaml:"origin" koanf:"origin"`
	BaseURL   string          `yaml:"base_url" koanf:"base_url"`
	IndexPath string          `yaml:"index_path" koanf:"index_path"`
	MountID   string          `yaml:"mount_id" koanf:"mount_id"`
	Sanitize  SanitizePolicy  `yaml:"sanitize" koanf:"sanitize"`
	Upstream  UpstreamConfig  `yaml:"upstream" koanf:"upstream"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Fragments FragmentsConfig `yaml:"fragments" koanf:"fragments"`
	Check     CheckConfig     `yaml:"check" koanf:"check"`
	LogLevel  string          `yaml:"log_level" koanf:"log_level"`
}

// UpstreamConfig controls requests to the content origin.
type UpstreamConfig struct {
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
	RateLimit float64       `yaml:"rate_limit" koanf:"rate_limit"`
	Burst     int           `yaml:"burst" koanf:"burst"`
}

// ServerConfig holds settings for `slidegallery serve`.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	AllowAll       bool     `yaml:"allow_all" koanf:"allow_all"`
}

// FragmentsConfig restricts which paths the stateless panel endpoint fetches.
type FragmentsConfig struct {
	Allow []string `yaml:"allow" koanf:"allow"`
}

// CheckConfig holds settings for `slidegallery check`.
type CheckConfig struct {
	Concurrency int `yaml:"concurrency" koanf:"concurrency"`
}
