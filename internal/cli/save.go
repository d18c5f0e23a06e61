package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/nickymarino/virgo/internal/configtypes"
	"github.com/nickymarino/virgo/internal/distribution"
	"github.com/nickymarino/virgo/internal/imageio"
	"github.com/nickymarino/virgo/internal/logging"
	"github.com/nickymarino/virgo/internal/palette"
	"github.com/nickymarino/virgo/internal/wallpaper"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// DefaultSavePath is used when save is called without PATH.
const DefaultSavePath = "output.png"

type saveOptions struct {
	background  string
	foregrounds string
	width       int
	height      int
	density     float64
	diameter    int
	xMean       float64
	yMean       float64
	seed        uint64
	format      string
	render      renderOptions

	hasXMean bool
	hasYMean bool
	hasSeed  bool
}

func Save() *cobra.Command {
	var opts saveOptions
	var saveCmd = &cobra.Command{
		Use:   "save [PATH]",
		Short: "Generate a wallpaper and save it at a location",
		Long:  `Generate a wallpaper and save it at PATH, output.png by default`,
		Example: `  virgo save
  virgo save --background "#ffffff" --foregrounds "#000000"
  virgo save --background dark_blue --foregrounds sunset --density 2 test.png`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
			path := DefaultSavePath
			if len(args) == 1 {
				path = args[0]
			}
			opts.hasXMean = cmd.Flags().Changed("x-mean")
			opts.hasYMean = cmd.Flags().Changed("y-mean")
			opts.hasSeed = cmd.Flags().Changed("seed")
			if err := save(cmd.Context(), os.Stdout, path, opts); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	saveCmd.Flags().StringVarP(&opts.background, "background", "", palette.DefaultBackground, "background as a hex code or predefined name, see list_backgrounds")
	saveCmd.Flags().StringVarP(&opts.foregrounds, "foregrounds", "", palette.DefaultForegrounds, "foregrounds as hex codes separated by commas or predefined name, see list_foregrounds")
	saveCmd.Flags().IntVarP(&opts.width, "width", "", 100, "width of the wallpaper")
	saveCmd.Flags().IntVarP(&opts.height, "height", "", 100, "height of the wallpaper")
	saveCmd.Flags().Float64VarP(&opts.density, "density", "", 1, "percentage of image area covered by blocks")
	saveCmd.Flags().IntVarP(&opts.diameter, "diameter", "", 1, "side length of each block")
	saveCmd.Flags().Float64VarP(&opts.xMean, "x-mean", "", 0, "gather blocks around this x coordinate")
	saveCmd.Flags().Float64VarP(&opts.yMean, "y-mean", "", 0, "gather blocks around this y coordinate")
	saveCmd.Flags().Uint64VarP(&opts.seed, "seed", "", 0, "seed to reproduce a wallpaper, random by default")
	saveCmd.Flags().StringVarP(&opts.format, "format", "f", "", "image format: png, bmp or tiff, detected from PATH extension by default")
	defineRenderFlags(saveCmd, &opts.render)
	return saveCmd
}

// renderOptions are engine tunables shared by one-shot commands, serve reads
// them from the render config section.
type renderOptions struct {
	spread        float64
	maxRejections int
}

func defineRenderFlags(cmd *cobra.Command, opts *renderOptions) {
	cmd.Flags().Float64VarP(&opts.spread, "spread", "", wallpaper.DefaultSpread, "fraction of width or height used as standard deviation around x-mean and y-mean")
	cmd.Flags().IntVarP(&opts.maxRejections, "max-rejections", "", distribution.DefaultMaxRejections, "out of range draws tolerated for a single coordinate around a mean")
}

func (o renderOptions) engine() (*wallpaper.Engine, error) {
	if o.spread <= 0 || math.IsInf(o.spread, 0) || math.IsNaN(o.spread) {
		return nil, fmt.Errorf("spread must be a positive number, got %v", o.spread)
	}
	if o.maxRejections <= 0 {
		return nil, fmt.Errorf("max-rejections must be positive, got %d", o.maxRejections)
	}
	return wallpaper.NewEngine(wallpaper.Options{
		Spread:        o.spread,
		MaxRejections: o.maxRejections,
		MaxCells:      wallpaper.DefaultMaxCells,
	}), nil
}

func save(ctx context.Context, out io.Writer, path string, opts saveOptions) error {
	engine, err := opts.render.engine()
	if err != nil {
		return err
	}
	var format imageio.Format
	if opts.format != "" {
		format, err = imageio.ParseFormat(opts.format)
	} else {
		format, err = imageio.FormatFromPath(path)
	}
	if err != nil {
		return err
	}
	pal, err := palette.FromStrings(opts.background, opts.foregrounds)
	if err != nil {
		return err
	}
	w := wallpaper.Wallpaper{
		Width:    opts.width,
		Height:   opts.height,
		Density:  opts.density,
		Diameter: opts.diameter,
		Palette:  pal,
	}
	if opts.hasXMean {
		w.XMean = &opts.xMean
	}
	if opts.hasYMean {
		w.YMean = &opts.yMean
	}
	if opts.hasSeed {
		w.Seed = &opts.seed
	}

	img, res, err := engine.Render(ctx, w)
	if err != nil {
		return err
	}
	log.Debug().Uint64("seed", res.Seed).Int("blocks", res.Blocks).Bool("fallback", res.Fallback).Msg("wallpaper rendered")
	if err := imageio.Save(path, img, format); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Wallpaper saved at %s\n", path)
	return nil
}

// setupLogging configures logging of one-shot commands: warnings only unless
// --verbose is set.
func setupLogging(cmd *cobra.Command) {
	level := "warn"
	if f := cmd.Flag("verbose"); f != nil && f.Value.String() == "true" {
		level = "debug"
	}
	_, _ = logging.Setup(configtypes.Log{Level: level})
}
