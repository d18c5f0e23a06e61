package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex returned for strings which are not #rgb or #rrggbb colors.
var ErrInvalidHex = errors.New("invalid hex color")

// ParseHex parses "#rrggbb", "#rgb" or the same without leading '#' into an
// opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimSpace(s)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	if len(h) != 4 && len(h) != 7 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex(strings.ToLower(h))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustParseHex is like ParseHex but panics on error. Used for preset tables.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb". Alpha is ignored.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return cf.Hex()
}

func isHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}
