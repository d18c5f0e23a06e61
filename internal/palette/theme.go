package palette

// Theme pairs a background preset with a foreground preset set.
type Theme struct {
	Background  string `json:"background"`
	Foregrounds string `json:"foregrounds"`
}

// CuratedThemes are hand-picked combinations which look good together.
var CuratedThemes = []Theme{
	{Background: "black", Foregrounds: "ruby"},
	{Background: "dark_blue", Foregrounds: "sunset"},
	{Background: "chalkboard", Foregrounds: "primaries"},
	{Background: "peach", Foregrounds: "primaries_light"},
	{Background: "gray", Foregrounds: "gothic"},
	{Background: "teal", Foregrounds: "solar"},
	{Background: "orange", Foregrounds: "yellows"},
	{Background: "brown", Foregrounds: "earth"},
	{Background: "gray_green", Foregrounds: "faded"},
}

// DefaultTheme is used when nothing else is specified.
var DefaultTheme = Theme{Background: DefaultBackground, Foregrounds: DefaultForegrounds}

// RandomTheme combines a random background preset with a random foreground set.
func RandomTheme(rng Rand) Theme {
	return Theme{
		Background:  Backgrounds[rng.IntN(len(Backgrounds))].Name,
		Foregrounds: Foregrounds[rng.IntN(len(Foregrounds))].Name,
	}
}

// RandomCuratedTheme returns one of CuratedThemes.
func RandomCuratedTheme(rng Rand) Theme {
	return CuratedThemes[rng.IntN(len(CuratedThemes))]
}

// Palette builds Palette from theme presets.
func (t Theme) Palette() (*Palette, error) {
	return FromRefs(Named(t.Background), Named(t.Foregrounds))
}
