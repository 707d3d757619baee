package config

import "time"

const (
	DefaultIndexPath = "/slides/query-index.json"
	DefaultMountID   = "slide-gallery-app"
)

// DefaultAllowedOrigins are the CORS origins permitted to embed the widget.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Origin:    "http://localhost:3000",
		BaseURL:   "",
		IndexPath: DefaultIndexPath,
		MountID:   DefaultMountID,
		Sanitize:  SanitizeTrusted,
		Upstream: UpstreamConfig{
			Timeout: 30 * time.Second,
			Burst:   4,
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		},
		Fragments: FragmentsConfig{
			Allow: []string{"/**"},
		},
		Check: CheckConfig{
			Concurrency: 4,
		},
		LogLevel: "info",
	}
}
