// Package palette contains wallpaper color palettes: one background color and
// an ordered set of foreground colors addressed by stable integer keys.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// Key addresses a color inside Palette. Background is always 0, foregrounds are
// 1..N in the order they were given.
type Key uint16

// BackgroundKey is the key of the background color in every Palette.
const BackgroundKey Key = 0

// MaxForegrounds is the maximum number of foreground colors a Palette can hold.
const MaxForegrounds = math.MaxUint16

var (
	// ErrLookup returned when a key does not exist in Palette.
	ErrLookup = errors.New("palette key lookup failed")
	// ErrNoForegrounds returned when Palette is created without foreground colors.
	ErrNoForegrounds = errors.New("palette requires at least one foreground color")
)

// Rand is a source of randomness for foreground selection.
type Rand interface {
	IntN(n int) int
}

// Palette is immutable after New.
type Palette struct {
	colors []color.RGBA
}

// New creates Palette from background and foreground colors.
func New(background color.RGBA, foregrounds []color.RGBA) (*Palette, error) {
	if len(foregrounds) == 0 {
		return nil, ErrNoForegrounds
	}
	if len(foregrounds) > MaxForegrounds {
		return nil, fmt.Errorf("too many foreground colors: %d, max %d", len(foregrounds), MaxForegrounds)
	}
	colors := make([]color.RGBA, 0, len(foregrounds)+1)
	colors = append(colors, background)
	colors = append(colors, foregrounds...)
	return &Palette{colors: colors}, nil
}

// BackgroundKey returns key of background color.
func (p *Palette) BackgroundKey() Key {
	return BackgroundKey
}

// Background returns background color.
func (p *Palette) Background() color.RGBA {
	return p.colors[BackgroundKey]
}

// Foregrounds returns a copy of foreground colors ordered by key.
func (p *Palette) Foregrounds() []color.RGBA {
	out := make([]color.RGBA, len(p.colors)-1)
	copy(out, p.colors[1:])
	return out
}

// NumForegrounds returns number of foreground colors.
func (p *Palette) NumForegrounds() int {
	return len(p.colors) - 1
}

// Len returns the number of keys in Palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// RandomForegroundKey returns a random foreground key. With a single
// foreground color its key is returned without touching rng.
func (p *Palette) RandomForegroundKey(rng Rand) Key {
	n := len(p.colors) - 1
	if n == 1 {
		return 1
	}
	return Key(1 + rng.IntN(n))
}

// ColorForKey returns color stored under key.
func (p *Palette) ColorForKey(key Key) (color.RGBA, error) {
	if int(key) >= len(p.colors) {
		return color.RGBA{}, fmt.Errorf("%w: key %d, palette size %d", ErrLookup, key, len(p.colors))
	}
	return p.colors[key], nil
}

// KeyForColor returns the first key (in key order) holding c. Duplicate colors
// are allowed in Palette so the reverse lookup is not unique: the background key
// wins over foregrounds and lower foreground keys win over higher ones.
func (p *Palette) KeyForColor(c color.RGBA) (Key, bool) {
	for i, pc := range p.colors {
		if pc == c {
			return Key(i), true
		}
	}
	return 0, false
}
