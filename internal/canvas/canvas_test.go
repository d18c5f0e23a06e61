package canvas

import (
	"context"
	"errors"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/nickymarino/virgo/internal/distribution"
	"github.com/nickymarino/virgo/internal/palette"

	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

func testPalette(t *testing.T, fg ...color.RGBA) *palette.Palette {
	t.Helper()
	p, err := palette.New(black, fg)
	require.NoError(t, err)
	return p
}

// fixedSampler always returns the same value.
type fixedSampler int

func (s fixedSampler) Sample(Rand) (int, error) { return int(s), nil }

type failingSampler struct{}

func (failingSampler) Sample(Rand) (int, error) { return 0, errors.New("boom") }

func TestNewFillsBackground(t *testing.T) {
	m := New(3, 2, palette.BackgroundKey)
	require.Equal(t, 3, m.Width())
	require.Equal(t, 2, m.Height())
	require.Equal(t, 6, m.Count(palette.BackgroundKey))

	m = New(2, 2, 5)
	require.Equal(t, 4, m.Count(5))
}

func TestStamp(t *testing.T) {
	m := New(4, 4, palette.BackgroundKey)
	require.True(t, m.Stamp(1, 1, 2, 1))
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want := palette.BackgroundKey
			if col >= 1 && col < 3 && row >= 1 && row < 3 {
				want = 1
			}
			require.Equal(t, want, m.At(col, row), "col %d row %d", col, row)
		}
	}
	require.Equal(t, 4, m.Count(1))
}

func TestStampClipped(t *testing.T) {
	m := New(4, 4, palette.BackgroundKey)
	require.False(t, m.Stamp(3, 3, 2, 1))
	require.Equal(t, 1, m.Count(1))
	require.Equal(t, palette.Key(1), m.At(3, 3))
	require.False(t, m.Stamp(-1, 0, 2, 2))
	require.Equal(t, palette.Key(2), m.At(0, 0))
}

func TestBlockCount(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		density      float64
		wantCount    int
		wantFallback bool
	}{
		{name: "five percent", width: 100, height: 100, density: 5, wantCount: 500},
		{name: "fractional remainder dropped", width: 20, height: 20, density: 0.5, wantCount: 2},
		{name: "over one hundred percent", width: 10, height: 10, density: 250, wantCount: 250},
		{name: "tiny density falls back", width: 10, height: 10, density: 0.001, wantCount: 10, wantFallback: true},
		{name: "zero density falls back", width: 20, height: 20, density: 0, wantCount: 40, wantFallback: true},
		{name: "exactly one block", width: 10, height: 10, density: 1, wantCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, fallback := BlockCount(tt.width, tt.height, tt.density)
			require.Equal(t, tt.wantCount, count)
			require.Equal(t, tt.wantFallback, fallback)
		})
	}
}

func TestBuildSingleColorPerBlock(t *testing.T) {
	p := testPalette(t, white, red)
	m := New(10, 10, palette.BackgroundKey)
	rng := rand.New(rand.NewPCG(1, 1))
	stats, err := Build(context.Background(), m, Params{
		Palette:  p,
		Diameter: 3,
		Blocks:   1,
		X:        fixedSampler(2),
		Y:        fixedSampler(4),
	}, rng)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Blocks)
	require.Zero(t, stats.Clipped)

	key := m.At(2, 4)
	require.NotEqual(t, palette.BackgroundKey, key)
	require.Equal(t, 9, m.Count(key))
	for row := 4; row < 7; row++ {
		for col := 2; col < 5; col++ {
			require.Equal(t, key, m.At(col, row))
		}
	}
}

func TestBuildSamplerError(t *testing.T) {
	p := testPalette(t, white)
	m := New(10, 10, palette.BackgroundKey)
	_, err := Build(context.Background(), m, Params{
		Palette:  p,
		Diameter: 1,
		Blocks:   5,
		X:        fixedSampler(0),
		Y:        failingSampler{},
	}, rand.New(rand.NewPCG(1, 1)))
	require.Error(t, err)
}

func TestBuildCancelled(t *testing.T) {
	p := testPalette(t, white)
	m := New(10, 10, palette.BackgroundKey)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, m, Params{
		Palette:  p,
		Diameter: 1,
		Blocks:   5,
		X:        fixedSampler(0),
		Y:        fixedSampler(0),
	}, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildNeverLeavesGrid(t *testing.T) {
	const width, height, diameter = 4, 4, 2
	x, err := distribution.FromDimension(width - diameter - 1)
	require.NoError(t, err)
	y, err := distribution.New(float64(height-diameter-1)/2, 0, height-diameter-1, distribution.WithStd(50))
	require.NoError(t, err)

	m := New(width, height, palette.BackgroundKey)
	stats, err := Build(context.Background(), m, Params{
		Palette:  testPalette(t, white),
		Diameter: diameter,
		Blocks:   5000,
		X:        x,
		Y:        y,
	}, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	require.Equal(t, 5000, stats.Blocks)
	require.Zero(t, stats.Clipped)
}

func TestMaterialize(t *testing.T) {
	p := testPalette(t, white, red)
	m := New(3, 2, palette.BackgroundKey)
	m.Stamp(1, 0, 1, 1)
	m.Stamp(2, 1, 1, 2)

	img, err := Materialize(m, p)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())
	require.Equal(t, black, img.RGBAAt(0, 0))
	require.Equal(t, white, img.RGBAAt(1, 0))
	require.Equal(t, red, img.RGBAAt(2, 1))
	require.Equal(t, black, img.RGBAAt(2, 0))
}

func TestMaterializeLookupError(t *testing.T) {
	p := testPalette(t, white)
	m := New(2, 2, palette.BackgroundKey)
	m.cells[3] = 9
	img, err := Materialize(m, p)
	require.Nil(t, img)
	require.ErrorIs(t, err, palette.ErrLookup)
}
