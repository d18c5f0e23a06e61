// Package canvas builds the dense color key map of a wallpaper and turns it
// into an image.
package canvas

import (
	"context"
	"fmt"

	"github.com/nickymarino/virgo/internal/distribution"
	"github.com/nickymarino/virgo/internal/palette"
)

// Map is a width×height grid of palette keys stored row by row.
type Map struct {
	width  int
	height int
	cells  []palette.Key
}

// New allocates Map with every cell set to fill. Width and height must be positive.
func New(width, height int, fill palette.Key) *Map {
	cells := make([]palette.Key, width*height)
	if fill != 0 {
		for i := range cells {
			cells[i] = fill
		}
	}
	return &Map{width: width, height: height, cells: cells}
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

// At returns key at column col and row row.
func (m *Map) At(col, row int) palette.Key {
	return m.cells[row*m.width+col]
}

// Count returns how many cells hold key.
func (m *Map) Count(key palette.Key) int {
	var n int
	for _, k := range m.cells {
		if k == key {
			n++
		}
	}
	return n
}

// Stamp sets every cell in [x, x+size) × [y, y+size) to key. Parts of the block
// outside the grid are dropped, in that case Stamp returns false.
func (m *Map) Stamp(x, y, size int, key palette.Key) bool {
	x0, y0, x1, y1 := x, y, x+size, y+size
	inside := x0 >= 0 && y0 >= 0 && x1 <= m.width && y1 <= m.height
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, m.width), min(y1, m.height)
	for row := y0; row < y1; row++ {
		line := m.cells[row*m.width : (row+1)*m.width]
		for col := x0; col < x1; col++ {
			line[col] = key
		}
	}
	return inside
}

// BlockCount converts density percent into the number of blocks to stamp. When
// the raw count is below one the count falls back to 10% of the area so that
// small images still get visible content; fallback reports that.
func BlockCount(width, height int, density float64) (count int, fallback bool) {
	area := float64(width) * float64(height)
	c := area * (density / 100)
	if c < 1 {
		c = area * 0.10
		fallback = true
	}
	return int(c), fallback
}

// Rand is a randomness source shared by samplers and foreground selection of
// one build.
type Rand = distribution.Rand

// Sampler returns one coordinate of a block's top-left corner.
type Sampler interface {
	Sample(rng Rand) (int, error)
}

// Params of Build.
type Params struct {
	Palette *palette.Palette
	// Diameter is the side of every stamped block.
	Diameter int
	// Blocks is the number of blocks to stamp, see BlockCount.
	Blocks int
	X      Sampler
	Y      Sampler
}

// Stats describes a finished build.
type Stats struct {
	Blocks int
	// Clipped is the number of blocks which did not fit into the grid.
	Clipped int
}

// ctxCheckInterval is how many blocks are stamped between context checks.
const ctxCheckInterval = 4096

// Build stamps p.Blocks blocks on m. Every block gets a single foreground key
// chosen once and a top-left corner sampled independently on both axes. Later
// blocks overwrite earlier ones.
func Build(ctx context.Context, m *Map, p Params, rng Rand) (Stats, error) {
	var stats Stats
	for i := 0; i < p.Blocks; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		key := p.Palette.RandomForegroundKey(rng)
		x, err := p.X.Sample(rng)
		if err != nil {
			return stats, fmt.Errorf("sample x: %w", err)
		}
		y, err := p.Y.Sample(rng)
		if err != nil {
			return stats, fmt.Errorf("sample y: %w", err)
		}
		if !m.Stamp(x, y, p.Diameter, key) {
			stats.Clipped++
		}
		stats.Blocks++
	}
	return stats, nil
}
