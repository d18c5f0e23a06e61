// Package examples renders a batch of sample wallpapers in common sizes.
package examples

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/nickymarino/virgo/internal/imageio"
	"github.com/nickymarino/virgo/internal/palette"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultNameTemplate is a file name template of saved examples.
const DefaultNameTemplate = "example_{index}{ext}"

// Example is a wallpaper shape without colors, theme is picked for every
// batch.
type Example struct {
	Width    int
	Height   int
	Density  float64
	Diameter int
	XMean    *float64
	YMean    *float64
}

func mean(v float64) *float64 { return &v }

// Default examples: small and medium squares, desktop and phone sizes.
var Default = []Example{
	// Small squares.
	{Width: 400, Height: 400, Density: 0.7, Diameter: 1},
	{Width: 400, Height: 400, Density: 0.1, Diameter: 10},
	{Width: 400, Height: 400, Density: 0.5, Diameter: 5},
	{Width: 400, Height: 400, Density: 0.5, Diameter: 5, XMean: mean(100), YMean: mean(100)},

	// Medium squares.
	{Width: 1000, Height: 1000, Density: 0.7, Diameter: 1},
	{Width: 1000, Height: 1000, Density: 0.1, Diameter: 10},
	{Width: 1000, Height: 1000, Density: 0.5, Diameter: 5},
	{Width: 1000, Height: 1000, Density: 0.5, Diameter: 5, XMean: mean(500), YMean: mean(500)},
	{Width: 1000, Height: 1000, Density: 0.5, Diameter: 5, XMean: mean(750), YMean: mean(750)},
	{Width: 1000, Height: 1000, Density: 0.5, Diameter: 5, XMean: mean(333)},
	{Width: 1000, Height: 1000, Density: 0.5, Diameter: 5, YMean: mean(333)},

	// 1920x1080 desktop.
	{Width: 1920, Height: 1080, Density: 0.5, Diameter: 5, XMean: mean(960), YMean: mean(540)},
	{Width: 1920, Height: 1080, Density: 0.5, Diameter: 5, XMean: mean(480), YMean: mean(270)},
	{Width: 1920, Height: 1080, Density: 0.5, Diameter: 5, XMean: mean(333)},
	{Width: 1920, Height: 1080, Density: 0.5, Diameter: 5, YMean: mean(720)},

	// 1125x2436 phone.
	{Width: 1125, Height: 2436, Density: 0.05, Diameter: 1},
	{Width: 1125, Height: 2436, Density: 0.1, Diameter: 10},
	{Width: 1125, Height: 2436, Density: 0.5, Diameter: 5},
	{Width: 1125, Height: 2436, Density: 0.5, Diameter: 5, XMean: mean(563), YMean: mean(2030)},
	{Width: 1125, Height: 2436, Density: 0.5, Diameter: 5, XMean: mean(563), YMean: mean(1624)},
	{Width: 1125, Height: 2436, Density: 0.5, Diameter: 5, XMean: mean(333)},
	{Width: 1125, Height: 2436, Density: 0.5, Diameter: 5, YMean: mean(2103)},
}

// Options of Save.
type Options struct {
	// Curated picks themes from palette.CuratedThemes instead of random
	// background and foreground combinations.
	Curated bool
	// Workers is the number of concurrent renders, GOMAXPROCS when zero.
	Workers int
	// Seed makes theme choice and every render reproducible.
	Seed *uint64
	// Format of saved files, PNG when empty.
	Format imageio.Format
	// NameTemplate for file names, supports {index} and {ext} tags.
	NameTemplate string
}

// Saved describes a saved example.
type Saved struct {
	Index  int
	Path   string
	Theme  palette.Theme
	Result wallpaper.Result
}

type job struct {
	index int
	path  string
	theme palette.Theme
	w     wallpaper.Wallpaper
}

// Save renders examples into folder creating it when missing. Results are
// returned in examples order. The first failed render cancels the rest.
func Save(ctx context.Context, engine *wallpaper.Engine, folder string, examples []Example, opts Options) ([]Saved, error) {
	if opts.Format == "" {
		opts.Format = imageio.PNG
	}
	if opts.NameTemplate == "" {
		opts.NameTemplate = DefaultNameTemplate
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	names, err := imageio.NewNameTemplate(opts.NameTemplate)
	if err != nil {
		return nil, err
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	// Themes and render seeds are drawn upfront so that the outcome does not
	// depend on worker scheduling.
	jobs := make([]job, 0, len(examples))
	paths := make(map[string]int, len(examples))
	for i, ex := range examples {
		theme := palette.RandomTheme(rng)
		if opts.Curated {
			theme = palette.RandomCuratedTheme(rng)
		}
		p, err := theme.Palette()
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		renderSeed := rng.Uint64()
		name := names.Execute(map[string]string{
			"index": strconv.Itoa(i),
			"ext":   opts.Format.Ext(),
		})
		path := filepath.Join(folder, name)
		if prev, ok := paths[path]; ok {
			return nil, fmt.Errorf("examples %d and %d have the same path %s, use {index} in name template", prev, i, path)
		}
		paths[path] = i
		jobs = append(jobs, job{
			index: i,
			path:  path,
			theme: theme,
			w: wallpaper.Wallpaper{
				Width:    ex.Width,
				Height:   ex.Height,
				Density:  ex.Density,
				Diameter: ex.Diameter,
				Palette:  p,
				XMean:    ex.XMean,
				YMean:    ex.YMean,
				Seed:     &renderSeed,
			},
		})
	}

	saved := make([]Saved, len(jobs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, j := range jobs {
		group.Go(func() error {
			img, res, err := engine.Render(ctx, j.w)
			if err != nil {
				return fmt.Errorf("example %d: %w", j.index, err)
			}
			if err := imageio.Save(j.path, img, opts.Format); err != nil {
				return fmt.Errorf("example %d: %w", j.index, err)
			}
			log.Debug().Int("index", j.index).Str("path", j.path).
				Str("background", j.theme.Background).Str("foregrounds", j.theme.Foregrounds).
				Msg("example saved")
			saved[j.index] = Saved{Index: j.index, Path: j.path, Theme: j.theme, Result: res}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return saved, nil
}
