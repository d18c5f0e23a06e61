package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nickymarino/virgo/internal/imageio"
	"github.com/nickymarino/virgo/internal/palette"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "none"}

// Validate validates config and returns error if problems found
func (c Config) Validate() error {
	if !containsFold(logLevels, c.Log.Level) {
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http_server.port: %d", c.HTTP.Port)
	}
	if c.HTTP.MaxConcurrentRenders < 0 {
		return errors.New("http_server.max_concurrent_renders must not be negative")
	}
	if c.HTTP.RenderTimeout < 0 || c.HTTP.ReadHeaderTimeout < 0 {
		return errors.New("http_server timeouts must not be negative")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.Rate <= 0 {
			return errors.New("http_server.rate_limit.rate must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http_server.rate_limit.burst must be positive")
		}
	}

	if err := validateRender(c); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := validateDefaults(c); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	if c.Walls.Dir == "" {
		return errors.New("walls.dir is required")
	}
	if c.Walls.TTL < 0 {
		return errors.New("walls.ttl must not be negative")
	}
	if c.Walls.TTL > 0 && c.Walls.CleanupInterval <= 0 {
		return errors.New("walls.cleanup_interval must be positive when walls.ttl is set")
	}

	prefixes := map[string]string{
		"walls.handler_prefix":      c.Walls.HandlerPrefix,
		"prometheus.handler_prefix": c.Prometheus.HandlerPrefix,
		"health.handler_prefix":     c.Health.HandlerPrefix,
	}
	for name, prefix := range prefixes {
		if !strings.HasPrefix(prefix, "/") || prefix == "/" {
			return fmt.Errorf("%s must start with / and be longer than /: %q", name, prefix)
		}
	}

	if c.Graphite.Enabled && c.Graphite.Interval <= 0 {
		return errors.New("graphite.interval must be positive")
	}

	if c.Shutdown.Timeout < 0 {
		return errors.New("shutdown.timeout must not be negative")
	}
	return nil
}

func validateRender(c Config) error {
	if c.Render.Spread <= 0 || math.IsInf(c.Render.Spread, 0) || math.IsNaN(c.Render.Spread) {
		return fmt.Errorf("spread must be a positive number, got %v", c.Render.Spread)
	}
	if c.Render.MaxRejections <= 0 {
		return fmt.Errorf("max_rejections must be positive, got %d", c.Render.MaxRejections)
	}
	if c.Render.MaxCells < 0 {
		return fmt.Errorf("max_cells must not be negative, got %d", c.Render.MaxCells)
	}
	return nil
}

func validateDefaults(c Config) error {
	d := c.Defaults
	if _, err := palette.FromStrings(d.Background, d.Foregrounds); err != nil {
		return err
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", d.Width, d.Height)
	}
	if d.Diameter <= 0 {
		return fmt.Errorf("diameter must be positive, got %d", d.Diameter)
	}
	if d.Density < 0 {
		return fmt.Errorf("density must not be negative, got %v", d.Density)
	}
	if _, err := imageio.ParseFormat(d.Format); err != nil {
		return err
	}
	return nil
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
