package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nickymarino/virgo/internal/configtypes"
	"github.com/nickymarino/virgo/internal/imageio"
	"github.com/nickymarino/virgo/internal/palette"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/tidwall/gjson"
)

// renderParams are raw wallpaper parameters of a request with defaults applied.
type renderParams struct {
	Background  string
	Foregrounds string
	Width       int
	Height      int
	Density     float64
	Diameter    int
	XMean       *float64
	YMean       *float64
	Seed        *uint64
	Format      string
}

func defaultParams(d configtypes.Defaults) renderParams {
	return renderParams{
		Background:  d.Background,
		Foregrounds: d.Foregrounds,
		Width:       d.Width,
		Height:      d.Height,
		Density:     d.Density,
		Diameter:    d.Diameter,
		Format:      d.Format,
	}
}

func badParam(name string, err error) error {
	return fmt.Errorf("%w: bad %s: %w", wallpaper.ErrConfiguration, name, err)
}

// parseValues reads parameters from query string or form values. The web form
// sends a single foreground under "foreground", API clients use "foregrounds".
func parseValues(values url.Values, p *renderParams) error {
	if v := values.Get("background"); v != "" {
		p.Background = v
	}
	if v := values.Get("foreground"); v != "" {
		p.Foregrounds = v
	}
	if v := values.Get("foregrounds"); v != "" {
		p.Foregrounds = v
	}
	if v := values.Get("format"); v != "" {
		p.Format = v
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &p.Width},
		{"height", &p.Height},
		{"diameter", &p.Diameter},
	}
	for _, f := range ints {
		v := values.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return badParam(f.name, err)
		}
		*f.dst = n
	}
	if v := values.Get("density"); v != "" {
		d, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return badParam("density", err)
		}
		p.Density = d
	}
	for _, f := range []struct {
		name string
		dst  **float64
	}{{"x_mean", &p.XMean}, {"y_mean", &p.YMean}} {
		v := values.Get(f.name)
		if v == "" {
			continue
		}
		m, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return badParam(f.name, err)
		}
		*f.dst = &m
	}
	if v := values.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return badParam("seed", err)
		}
		p.Seed = &seed
	}
	return nil
}

var errNotJSONObject = errors.New("request body must be a JSON object")

// parseJSON reads parameters from JSON body. Foregrounds may be a string
// (preset name or comma separated hexes) or an array of hex strings.
func parseJSON(data []byte, p *renderParams) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: %w", wallpaper.ErrConfiguration, errNotJSONObject)
	}
	body := gjson.ParseBytes(data)
	if !body.IsObject() {
		return fmt.Errorf("%w: %w", wallpaper.ErrConfiguration, errNotJSONObject)
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{{"background", &p.Background}, {"format", &p.Format}} {
		res := body.Get(f.name)
		if !res.Exists() {
			continue
		}
		if res.Type != gjson.String {
			return badParam(f.name, errors.New("must be a string"))
		}
		*f.dst = res.String()
	}

	if res := body.Get("foregrounds"); res.Exists() {
		switch {
		case res.Type == gjson.String:
			p.Foregrounds = res.String()
		case res.IsArray():
			items := res.Array()
			if len(items) == 0 {
				return badParam("foregrounds", errors.New("must not be empty"))
			}
			hexes := make([]string, 0, len(items))
			for _, item := range items {
				if item.Type != gjson.String {
					return badParam("foregrounds", errors.New("array items must be strings"))
				}
				hexes = append(hexes, item.String())
			}
			if len(hexes) == 1 {
				p.Foregrounds = hexes[0]
			} else {
				p.Foregrounds = strings.Join(hexes, ",")
			}
		default:
			return badParam("foregrounds", errors.New("must be a string or an array of strings"))
		}
	}

	for _, f := range []struct {
		name string
		dst  *int
	}{{"width", &p.Width}, {"height", &p.Height}, {"diameter", &p.Diameter}} {
		res := body.Get(f.name)
		if !res.Exists() {
			continue
		}
		n, err := jsonInt(res)
		if err != nil {
			return badParam(f.name, err)
		}
		*f.dst = n
	}

	if res := body.Get("density"); res.Exists() {
		if res.Type != gjson.Number {
			return badParam("density", errors.New("must be a number"))
		}
		p.Density = res.Float()
	}

	for _, f := range []struct {
		name string
		dst  **float64
	}{{"x_mean", &p.XMean}, {"y_mean", &p.YMean}} {
		res := body.Get(f.name)
		if !res.Exists() || res.Type == gjson.Null {
			continue
		}
		if res.Type != gjson.Number {
			return badParam(f.name, errors.New("must be a number"))
		}
		m := res.Float()
		*f.dst = &m
	}

	if res := body.Get("seed"); res.Exists() && res.Type != gjson.Null {
		var seed uint64
		switch res.Type {
		case gjson.Number:
			s, err := strconv.ParseUint(res.Raw, 10, 64)
			if err != nil {
				return badParam("seed", err)
			}
			seed = s
		case gjson.String:
			s, err := strconv.ParseUint(res.String(), 10, 64)
			if err != nil {
				return badParam("seed", err)
			}
			seed = s
		default:
			return badParam("seed", errors.New("must be an unsigned integer"))
		}
		p.Seed = &seed
	}
	return nil
}

func jsonInt(res gjson.Result) (int, error) {
	if res.Type != gjson.Number {
		return 0, errors.New("must be an integer")
	}
	n, err := strconv.Atoi(res.Raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	return n, nil
}

// build resolves colors and format of params.
func (p renderParams) build() (wallpaper.Wallpaper, imageio.Format, error) {
	format, err := imageio.ParseFormat(p.Format)
	if err != nil {
		return wallpaper.Wallpaper{}, "", badParam("format", err)
	}
	pal, err := palette.FromStrings(p.Background, p.Foregrounds)
	if err != nil {
		return wallpaper.Wallpaper{}, "", fmt.Errorf("%w: %w", wallpaper.ErrConfiguration, err)
	}
	return wallpaper.Wallpaper{
		Width:    p.Width,
		Height:   p.Height,
		Density:  p.Density,
		Diameter: p.Diameter,
		Palette:  pal,
		XMean:    p.XMean,
		YMean:    p.YMean,
		Seed:     p.Seed,
	}, format, nil
}
