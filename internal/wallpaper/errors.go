package wallpaper

import (
	"errors"

	"github.com/nickymarino/virgo/internal/palette"
)

var (
	// ErrConfiguration returned when a Wallpaper can not be rendered with the
	// given parameters. Parameter checks run before the grid is allocated, an
	// exceeded rejection cap is only detected while the grid is built.
	ErrConfiguration = errors.New("invalid wallpaper configuration")
	// ErrAllocation returned when the grid for a Wallpaper would exceed the
	// configured cell limit or overflow int.
	ErrAllocation = errors.New("wallpaper too large")
	// ErrLookup returned when the grid references a key missing in palette.
	ErrLookup = palette.ErrLookup
)
