package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nickymarino/virgo/internal/palette"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

func ListBackgrounds() *cobra.Command {
	var match string
	var listCmd = &cobra.Command{
		Use:   "list_backgrounds",
		Short: "List names and hex codes of predefined backgrounds",
		Long:  `List names and hex codes of predefined backgrounds in NAME: HEX form`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := listBackgrounds(os.Stdout, match); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	listCmd.Flags().StringVarP(&match, "match", "m", "", "glob pattern to filter names, e.g. gray*")
	return listCmd
}

func ListForegrounds() *cobra.Command {
	var match string
	var listCmd = &cobra.Command{
		Use:   "list_foregrounds",
		Short: "List names and hex codes of predefined foregrounds",
		Long:  `List names and hex codes of predefined foreground sets in NAME: HEX, HEX form`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := listForegrounds(os.Stdout, match); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	listCmd.Flags().StringVarP(&match, "match", "m", "", "glob pattern to filter names, e.g. primaries*")
	return listCmd
}

func nameMatcher(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return func(string) bool { return true }, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad match pattern %q: %w", pattern, err)
	}
	return g.Match, nil
}

func listBackgrounds(out io.Writer, pattern string) error {
	match, err := nameMatcher(pattern)
	if err != nil {
		return err
	}
	for _, p := range palette.Backgrounds {
		if match(p.Name) {
			_, _ = fmt.Fprintf(out, "%s: %s\n", p.Name, p.Hex)
		}
	}
	return nil
}

func listForegrounds(out io.Writer, pattern string) error {
	match, err := nameMatcher(pattern)
	if err != nil {
		return err
	}
	for _, p := range palette.Foregrounds {
		if match(p.Name) {
			_, _ = fmt.Fprintf(out, "%s: %s\n", p.Name, strings.Join(p.Hexes, ", "))
		}
	}
	return nil
}
