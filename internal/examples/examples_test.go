package examples

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/nickymarino/virgo/internal/imageio"
	"github.com/nickymarino/virgo/internal/palette"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/stretchr/testify/require"
)

func seed(v uint64) *uint64 { return &v }

func TestDefaultExamplesValid(t *testing.T) {
	require.Len(t, Default, 22)
	e := wallpaper.NewEngine(wallpaper.Options{})
	p, err := palette.DefaultTheme.Palette()
	require.NoError(t, err)
	for i, ex := range Default {
		err := e.Validate(wallpaper.Wallpaper{
			Width:    ex.Width,
			Height:   ex.Height,
			Density:  ex.Density,
			Diameter: ex.Diameter,
			Palette:  p,
			XMean:    ex.XMean,
			YMean:    ex.YMean,
		})
		require.NoError(t, err, "example %d", i)
	}
}

var small = []Example{
	{Width: 20, Height: 20, Density: 0.1, Diameter: 1},
	{Width: 20, Height: 20, Density: 5, Diameter: 1},
	{Width: 20, Height: 20, Density: 10, Diameter: 5},
	{Width: 100, Height: 100, Density: 10, Diameter: 3, XMean: mean(30)},
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "examples")
	saved, err := Save(context.Background(), wallpaper.NewEngine(wallpaper.Options{}), dir, small, Options{
		Workers: 2,
		Seed:    seed(1),
	})
	require.NoError(t, err)
	require.Len(t, saved, len(small))
	for i, s := range saved {
		require.Equal(t, i, s.Index)
		require.Equal(t, filepath.Join(dir, "example_"+strconv.Itoa(i)+".png"), s.Path)
		_, err := os.Stat(s.Path)
		require.NoError(t, err)
	}
	// 20x20 at 0.1% is below one block and falls back.
	require.True(t, saved[0].Result.Fallback)
}

func TestSaveCuratedReproducible(t *testing.T) {
	run := func() []Saved {
		saved, err := Save(context.Background(), wallpaper.NewEngine(wallpaper.Options{}), t.TempDir(), small, Options{
			Curated: true,
			Seed:    seed(5),
			Format:  imageio.BMP,
		})
		require.NoError(t, err)
		return saved
	}
	first, second := run(), run()
	for i := range first {
		require.Contains(t, palette.CuratedThemes, first[i].Theme)
		require.Equal(t, first[i].Theme, second[i].Theme)
		require.Equal(t, first[i].Result.Seed, second[i].Result.Seed)
		require.Equal(t, ".bmp", filepath.Ext(first[i].Path))
	}
}

func TestSaveNameTemplate(t *testing.T) {
	dir := t.TempDir()
	saved, err := Save(context.Background(), wallpaper.NewEngine(wallpaper.Options{}), dir, small[:1], Options{
		NameTemplate: "wall-{index}{ext}",
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "wall-0.png"), saved[0].Path)

	_, err = Save(context.Background(), wallpaper.NewEngine(wallpaper.Options{}), dir, small[:1], Options{
		NameTemplate: "wall-{index",
	})
	require.Error(t, err)
}

func TestSaveNameTemplateDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	saved, err := Save(context.Background(), wallpaper.NewEngine(wallpaper.Options{}), dir, small[:3], Options{
		NameTemplate: "wall{ext}",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "same path")
	require.Nil(t, saved)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSaveRenderError(t *testing.T) {
	bad := []Example{{Width: 10, Height: 10, Density: 1, Diameter: 20}}
	_, err := Save(context.Background(), wallpaper.NewEngine(wallpaper.Options{}), t.TempDir(), bad, Options{})
	require.ErrorIs(t, err, wallpaper.ErrConfiguration)
}
