package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/nickymarino/virgo/internal/build"

	"github.com/spf13/cobra"
)

func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "virgo version information",
		Long:  `Print the version information of virgo`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version(os.Stdout)
		},
	}
}

func version(out io.Writer) {
	_, _ = fmt.Fprintf(out, "virgo v%s (commit: %s, Go version: %s)\n", build.Version, build.Commit, runtime.Version())
}
