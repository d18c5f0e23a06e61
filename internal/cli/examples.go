package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nickymarino/virgo/internal/examples"
	"github.com/nickymarino/virgo/internal/imageio"

	"github.com/spf13/cobra"
)

type saveExamplesOptions struct {
	curated bool
	workers int
	seed    uint64
	hasSeed bool
	format  string
	name    string
	render  renderOptions
}

func SaveExamples() *cobra.Command {
	var opts saveExamplesOptions
	var saveExamplesCmd = &cobra.Command{
		Use:   "save_examples FOLDER",
		Short: "Save examples of wallpapers to a folder",
		Long:  `Render built-in example wallpapers with random themes and save them to FOLDER, creating it when missing`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
			opts.hasSeed = cmd.Flags().Changed("seed")
			if err := saveExamples(cmd.Context(), os.Stdout, args[0], examples.Default, opts); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	saveExamplesCmd.Flags().BoolVarP(&opts.curated, "curated", "", false, "use curated background and foreground pairs only")
	saveExamplesCmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of concurrent renders, number of CPUs by default")
	saveExamplesCmd.Flags().Uint64VarP(&opts.seed, "seed", "", 0, "seed to reproduce the whole batch, random by default")
	saveExamplesCmd.Flags().StringVarP(&opts.format, "format", "f", "png", "image format: png, bmp or tiff")
	saveExamplesCmd.Flags().StringVarP(&opts.name, "name", "", examples.DefaultNameTemplate, "file name template, supports {index} and {ext}")
	defineRenderFlags(saveExamplesCmd, &opts.render)
	return saveExamplesCmd
}

func saveExamples(ctx context.Context, out io.Writer, folder string, list []examples.Example, opts saveExamplesOptions) error {
	format, err := imageio.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	batchOpts := examples.Options{
		Curated:      opts.curated,
		Workers:      opts.workers,
		Format:       format,
		NameTemplate: opts.name,
	}
	if opts.hasSeed {
		batchOpts.Seed = &opts.seed
	}
	engine, err := opts.render.engine()
	if err != nil {
		return err
	}
	saved, err := examples.Save(ctx, engine, folder, list, batchOpts)
	if err != nil {
		return err
	}
	for _, s := range saved {
		_, _ = fmt.Fprintf(out, "Wallpaper saved at %s\n", s.Path)
	}
	return nil
}
