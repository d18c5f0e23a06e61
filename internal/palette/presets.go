package palette

import (
	"image/color"
)

// Preset is a named background color.
type Preset struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// PresetSet is a named set of foreground colors.
type PresetSet struct {
	Name  string   `json:"name"`
	Hexes []string `json:"hexes"`
}

// Backgrounds are predefined background colors in listing order.
var Backgrounds = []Preset{
	{Name: "black", Hex: "#000000"},
	{Name: "white", Hex: "#ffffff"},
	{Name: "dark_blue", Hex: "#355c7d"},
	{Name: "chalkboard", Hex: "#2a363b"},
	{Name: "peach", Hex: "#ff8c94"},
	{Name: "gray", Hex: "#363636"},
	{Name: "teal", Hex: "#2f9599"},
	{Name: "orange", Hex: "ff4e50"},
	{Name: "brown", Hex: "#594f4f"},
	{Name: "gray_green", Hex: "#83af9b"},
}

// Foregrounds are predefined foreground color sets in listing order.
var Foregrounds = []PresetSet{
	{Name: "white", Hexes: []string{"#ffffff"}},
	{Name: "ruby", Hexes: []string{"#8d241f", "#a22924", "#b72f28", "#cc342d", "#d4453e", "#d95953", "#de6d68"}},
	{Name: "sunset", Hexes: []string{"#f8b195", "#f67280", "#c06c84", "#6c5b7b"}},
	{Name: "primaries", Hexes: []string{"#99b898", "#feceab", "#ff847c", "#e84a5f"}},
	{Name: "primaries_light", Hexes: []string{"#a8e6ce", "#bcedc2", "#ffd3b5", "#ffaaa6"}},
	{Name: "gothic", Hexes: []string{"#a8a7a7", "#cc527a", "#e8175d", "#474747"}},
	{Name: "solar", Hexes: []string{"#a7226e", "#ec2049", "#f26b38", "#9dedad"}},
	{Name: "yellows", Hexes: []string{"#e1f5c4", "#ede574", "#f9d423", "#fc913a"}},
	{Name: "earth", Hexes: []string{"#e5fcc2", "#9de0ad", "#45ada8", "#547980"}},
	{Name: "faded", Hexes: []string{"#fe4365", "#fc9d9a", "#f9cdad", "#c8c8a9"}},
}

// Default preset names.
const (
	DefaultBackground  = "black"
	DefaultForegrounds = "ruby"
)

var (
	backgroundColors map[string]color.RGBA
	foregroundColors map[string][]color.RGBA
)

func init() {
	backgroundColors = make(map[string]color.RGBA, len(Backgrounds))
	for _, p := range Backgrounds {
		backgroundColors[p.Name] = MustParseHex(p.Hex)
	}
	foregroundColors = make(map[string][]color.RGBA, len(Foregrounds))
	for _, s := range Foregrounds {
		colors := make([]color.RGBA, 0, len(s.Hexes))
		for _, h := range s.Hexes {
			colors = append(colors, MustParseHex(h))
		}
		foregroundColors[s.Name] = colors
	}
}

// BackgroundPreset returns predefined background color by name.
func BackgroundPreset(name string) (color.RGBA, bool) {
	c, ok := backgroundColors[name]
	return c, ok
}

// ForegroundPreset returns a copy of predefined foreground colors by name.
func ForegroundPreset(name string) ([]color.RGBA, bool) {
	colors, ok := foregroundColors[name]
	if !ok {
		return nil, false
	}
	out := make([]color.RGBA, len(colors))
	copy(out, colors)
	return out, true
}
