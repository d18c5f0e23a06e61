package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickymarino/virgo/internal/app"
	"github.com/nickymarino/virgo/internal/cli"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "virgo",
		Short: "Procedural wallpaper generator",
		Long: `Virgo scatters square blocks of foreground colors over a background
to generate wallpapers. Use save for a single image, save_examples for
a batch or serve to run the web form and render API.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log render details")

	rootCmd.AddCommand(
		cli.Save(),
		cli.SaveExamples(),
		cli.ListBackgrounds(),
		cli.ListForegrounds(),
		app.Serve(),
		cli.Version(),
		cli.CheckConfig(),
		cli.DefaultConfigCommand(),
		cli.DefaultEnv(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
