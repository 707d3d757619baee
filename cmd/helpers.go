package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ziadkadry99/slide-gallery/internal/config"
	"github.com/ziadkadry99/slide-gallery/internal/slides"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `slidegallery init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger returns a text logger at the configured level. --verbose
// forces debug.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if cfg.LogLevel != "" {
		_ = level.UnmarshalText([]byte(cfg.LogLevel))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// clients holds the fetchers shared by every surface.
type clients struct {
	index     *slides.IndexFetcher
	fragments *slides.FragmentFetcher
}

// newClients builds the upstream, sanitizer and fetchers from cfg.
func newClients(cfg *config.Config, logger *slog.Logger) (*clients, error) {
	up, err := slides.NewUpstream(slides.NewHTTPClient(cfg.Upstream.Timeout), slides.UpstreamOptions{
		Origin:    cfg.Origin,
		RateLimit: cfg.Upstream.RateLimit,
		Burst:     cfg.Upstream.Burst,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating upstream: %w", err)
	}

	sanitizer, err := slides.NewSanitizer(slides.SanitizePolicy(cfg.Sanitize))
	if err != nil {
		return nil, fmt.Errorf("creating sanitizer: %w", err)
	}

	logger.Debug("upstream ready", "origin", up.Origin(), "sanitize", string(sanitizer.Policy()))

	return &clients{
		index:     slides.NewIndexFetcher(up, cfg.BaseURL, cfg.IndexPath),
		fragments: slides.NewFragmentFetcher(up, sanitizer),
	}, nil
}

// setup loads config and builds the logger and clients for a command.
func setup() (*config.Config, *slog.Logger, *clients, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	c, err := newClients(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, c, nil
}
