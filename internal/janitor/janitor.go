// Package janitor removes expired wallpapers saved by the web form.
package janitor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nickymarino/virgo/internal/metrics"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// wallPattern matches saved wallpapers and temporary files left by
// interrupted writes.
var wallPattern = glob.MustCompile("{*.png,*.bmp,*.tiff,.*.png.*,.*.bmp.*,.*.tiff.*}")

// Config of Janitor.
type Config struct {
	Dir      string
	TTL      time.Duration
	Interval time.Duration
}

// Janitor periodically removes wallpapers older than TTL from Dir.
type Janitor struct {
	config Config
	now    func() time.Time
}

// New creates Janitor.
func New(c Config) *Janitor {
	return &Janitor{config: c, now: time.Now}
}

// Run cleans directory every Interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()
	for {
		removed, err := j.Clean()
		if err != nil {
			log.Warn().Err(err).Str("dir", j.config.Dir).Msg("error cleaning walls")
		} else if removed > 0 {
			log.Info().Int("removed", removed).Str("dir", j.config.Dir).Msg("expired walls removed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Clean removes expired wallpapers once and returns how many were removed. A
// missing directory is not an error.
func (j *Janitor) Clean() (int, error) {
	entries, err := os.ReadDir(j.config.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	deadline := j.now().Add(-j.config.TTL)
	removed := 0
	var firstErr error
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !wallPattern.Match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(deadline) {
			continue
		}
		if err := os.Remove(filepath.Join(j.config.Dir, entry.Name())); err != nil {
			if firstErr == nil && !errors.Is(err, fs.ErrNotExist) {
				firstErr = err
			}
			continue
		}
		removed++
	}
	metrics.AddWallsRemoved(removed)
	return removed, firstErr
}
