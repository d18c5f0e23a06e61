// Package wallpaper renders wallpapers: a solid background with square blocks
// of foreground colors scattered over it.
package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"time"

	"github.com/nickymarino/virgo/internal/canvas"
	"github.com/nickymarino/virgo/internal/distribution"
	"github.com/nickymarino/virgo/internal/palette"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultSpread is a fraction of axis extent used as standard deviation
	// when an explicit axis mean is set.
	DefaultSpread = 0.125
	// DefaultMaxCells limits the grid size, a bit more than 8K UHD squared.
	DefaultMaxCells = 100_000_000
	// maxBlocks is the upper bound of stamps a single render may perform.
	maxBlocks = math.MaxInt32
)

// seedStream is the second PCG word, fixed so a seed alone reproduces a render.
const seedStream = 0x76697267_6f766972

// Wallpaper is a render request.
type Wallpaper struct {
	Width  int
	Height int
	// Density is a percentage of image area covered by blocks, may be
	// fractional or over 100.
	Density float64
	// Diameter is a side length of a single block.
	Diameter int
	Palette  *palette.Palette
	// XMean and YMean switch an axis to normal distribution around the value.
	XMean *float64
	YMean *float64
	// Seed makes render reproducible. Random seed is used when nil.
	Seed *uint64
}

// Options of Engine.
type Options struct {
	// Spread used to derive standard deviation from axis extent. Zero means
	// DefaultSpread.
	Spread float64
	// MaxRejections per sample of a normal axis. Zero means
	// distribution.DefaultMaxRejections.
	MaxRejections int
	// MaxCells limits Width*Height. Zero means no limit besides int overflow.
	MaxCells int
}

// Result describes finished render.
type Result struct {
	Seed     uint64
	Blocks   int
	Clipped  int
	Fallback bool
	Duration time.Duration
}

// Engine renders wallpapers. Engine is safe for concurrent use, each render
// owns its own random generator.
type Engine struct {
	opts Options
}

// NewEngine creates Engine.
func NewEngine(opts Options) *Engine {
	if opts.Spread <= 0 {
		opts.Spread = DefaultSpread
	}
	if opts.MaxRejections <= 0 {
		opts.MaxRejections = distribution.DefaultMaxRejections
	}
	return &Engine{opts: opts}
}

// Options returns effective Engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// plan is a validated Wallpaper ready to be built.
type plan struct {
	x        *distribution.Distribution
	y        *distribution.Distribution
	blocks   int
	fallback bool
}

// Validate checks Wallpaper without allocating the grid.
func (e *Engine) Validate(w Wallpaper) error {
	_, err := e.plan(w)
	return err
}

func (e *Engine) plan(w Wallpaper) (plan, error) {
	if w.Width <= 0 || w.Height <= 0 {
		return plan{}, fmt.Errorf("%w: width and height must be positive, got %dx%d", ErrConfiguration, w.Width, w.Height)
	}
	if w.Diameter <= 0 {
		return plan{}, fmt.Errorf("%w: diameter must be positive, got %d", ErrConfiguration, w.Diameter)
	}
	if w.Diameter >= w.Width || w.Diameter >= w.Height {
		return plan{}, fmt.Errorf("%w: diameter %d does not fit into %dx%d", ErrConfiguration, w.Diameter, w.Width, w.Height)
	}
	if w.Density < 0 || math.IsNaN(w.Density) || math.IsInf(w.Density, 0) {
		return plan{}, fmt.Errorf("%w: density must be a non-negative number, got %v", ErrConfiguration, w.Density)
	}
	if w.Palette == nil {
		return plan{}, fmt.Errorf("%w: palette is required", ErrConfiguration)
	}
	if w.Width > math.MaxInt/w.Height {
		return plan{}, fmt.Errorf("%w: %dx%d overflows", ErrAllocation, w.Width, w.Height)
	}
	cells := w.Width * w.Height
	if e.opts.MaxCells > 0 && cells > e.opts.MaxCells {
		return plan{}, fmt.Errorf("%w: %d cells exceed limit of %d", ErrAllocation, cells, e.opts.MaxCells)
	}
	if float64(cells)*(w.Density/100) > maxBlocks {
		return plan{}, fmt.Errorf("%w: density %v produces too many blocks", ErrAllocation, w.Density)
	}

	x, err := e.axis("x", w.Width, w.Diameter, w.XMean)
	if err != nil {
		return plan{}, err
	}
	y, err := e.axis("y", w.Height, w.Diameter, w.YMean)
	if err != nil {
		return plan{}, err
	}
	blocks, fallback := canvas.BlockCount(w.Width, w.Height, w.Density)
	return plan{x: x, y: y, blocks: blocks, fallback: fallback}, nil
}

// axis builds distribution of block top-left corners along one axis so that a
// block never crosses the image boundary.
func (e *Engine) axis(name string, extent int, diameter int, mean *float64) (*distribution.Distribution, error) {
	limit := extent - diameter - 1
	if mean == nil {
		d, err := distribution.FromDimension(limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %s axis: %w", ErrConfiguration, name, err)
		}
		return d, nil
	}
	if math.IsNaN(*mean) || *mean < 0 || *mean > float64(limit) {
		return nil, fmt.Errorf("%w: %s mean %v is out of range [0, %d]", ErrConfiguration, name, *mean, limit)
	}
	d, err := distribution.New(*mean, 0, limit,
		distribution.WithStd(float64(extent)*e.opts.Spread),
		distribution.WithMaxRejections(e.opts.MaxRejections),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s axis: %w", ErrConfiguration, name, err)
	}
	return d, nil
}

// Render draws Wallpaper. Context is polled while blocks are stamped.
func (e *Engine) Render(ctx context.Context, w Wallpaper) (*image.RGBA, Result, error) {
	started := time.Now()
	p, err := e.plan(w)
	if err != nil {
		return nil, Result{}, err
	}

	var seed uint64
	if w.Seed != nil {
		seed = *w.Seed
	} else {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seedStream))

	m := canvas.New(w.Width, w.Height, w.Palette.BackgroundKey())
	stats, err := canvas.Build(ctx, m, canvas.Params{
		Palette:  w.Palette,
		Diameter: w.Diameter,
		Blocks:   p.blocks,
		X:        p.x,
		Y:        p.y,
	}, rng)
	if err != nil {
		if errors.Is(err, distribution.ErrTooManyRejections) {
			return nil, Result{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		return nil, Result{}, err
	}

	img, err := canvas.Materialize(m, w.Palette)
	if err != nil {
		return nil, Result{}, err
	}

	res := Result{
		Seed:     seed,
		Blocks:   stats.Blocks,
		Clipped:  stats.Clipped,
		Fallback: p.fallback,
		Duration: time.Since(started),
	}
	if res.Clipped > 0 {
		log.Warn().Int("clipped", res.Clipped).Msg("blocks crossed image boundary")
	}
	log.Debug().
		Int("width", w.Width).Int("height", w.Height).
		Float64("density", w.Density).Int("diameter", w.Diameter).
		Uint64("seed", seed).Int("blocks", res.Blocks).Bool("fallback", res.Fallback).
		Dur("duration", res.Duration).Msg("wallpaper rendered")
	return img, res, nil
}
