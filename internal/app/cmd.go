package app

import (
	"github.com/nickymarino/virgo/internal/config"

	"github.com/spf13/cobra"
)

func Serve() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run wallpaper HTTP server",
		Long:  "Run HTTP server with wallpaper web form and render API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			Run(cmd, configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "config.json", "path to config file")
	config.DefineFlags(cmd)
	return cmd
}
