package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownPreset returned when a named preset does not exist.
var ErrUnknownPreset = errors.New("unknown preset")

// ColorRef is either a list of literal colors or a reference to a preset by
// name. It is resolved to concrete colors before a Palette is built.
type ColorRef struct {
	name   string
	colors []color.RGBA
}

// Literal creates ColorRef holding colors as is.
func Literal(colors ...color.RGBA) ColorRef {
	return ColorRef{colors: colors}
}

// Named creates ColorRef pointing to a preset.
func Named(name string) ColorRef {
	return ColorRef{name: name}
}

// IsNamed reports whether ColorRef points to a preset.
func (r ColorRef) IsNamed() bool {
	return r.colors == nil
}

// Name of referenced preset, empty for literals.
func (r ColorRef) Name() string {
	return r.name
}

func (r ColorRef) String() string {
	if r.IsNamed() {
		return r.name
	}
	hexes := make([]string, 0, len(r.colors))
	for _, c := range r.colors {
		hexes = append(hexes, Hex(c))
	}
	return strings.Join(hexes, ",")
}

// ParseColorRef parses user input: anything containing '#' is a comma separated
// list of hex colors, known preset names (background or foreground) are named
// refs, and a bare hex string like "ff4e50" is a literal.
func ParseColorRef(s string) (ColorRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ColorRef{}, errors.New("empty color")
	}
	if strings.Contains(s, "#") || strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		colors := make([]color.RGBA, 0, len(parts))
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := ParseHex(part)
			if err != nil {
				return ColorRef{}, err
			}
			colors = append(colors, c)
		}
		if len(colors) == 0 {
			return ColorRef{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		return Literal(colors...), nil
	}
	if _, ok := backgroundColors[s]; ok {
		return Named(s), nil
	}
	if _, ok := foregroundColors[s]; ok {
		return Named(s), nil
	}
	if isHex(s) {
		return Literal(MustParseHex(s)), nil
	}
	return Named(s), nil
}

// Background resolves ColorRef against background presets. A literal must
// contain exactly one color.
func (r ColorRef) Background() (color.RGBA, error) {
	if r.IsNamed() {
		c, ok := BackgroundPreset(r.name)
		if !ok {
			return color.RGBA{}, fmt.Errorf("%w: background %q", ErrUnknownPreset, r.name)
		}
		return c, nil
	}
	if len(r.colors) != 1 {
		return color.RGBA{}, fmt.Errorf("background must be a single color, got %d", len(r.colors))
	}
	return r.colors[0], nil
}

// Foregrounds resolves ColorRef against foreground presets.
func (r ColorRef) Foregrounds() ([]color.RGBA, error) {
	if r.IsNamed() {
		colors, ok := ForegroundPreset(r.name)
		if !ok {
			return nil, fmt.Errorf("%w: foregrounds %q", ErrUnknownPreset, r.name)
		}
		return colors, nil
	}
	out := make([]color.RGBA, len(r.colors))
	copy(out, r.colors)
	return out, nil
}

// FromRefs builds Palette from background and foreground references.
func FromRefs(background, foregrounds ColorRef) (*Palette, error) {
	bg, err := background.Background()
	if err != nil {
		return nil, err
	}
	fg, err := foregrounds.Foregrounds()
	if err != nil {
		return nil, err
	}
	return New(bg, fg)
}

// FromStrings parses and resolves background and foreground user input.
func FromStrings(background, foregrounds string) (*Palette, error) {
	bgRef, err := ParseColorRef(background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	fgRef, err := ParseColorRef(foregrounds)
	if err != nil {
		return nil, fmt.Errorf("foregrounds: %w", err)
	}
	return FromRefs(bgRef, fgRef)
}
