package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nickymarino/virgo/internal/config"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func DefaultEnv() *cobra.Command {
	var baseConfigFile string
	var defaultEnvCmd = &cobra.Command{
		Use:   "defaultenv",
		Short: "Generate full environment var list with defaults",
		Long:  `Generate full virgo environment var list with defaults`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := defaultEnv(os.Stdout, baseConfigFile); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	defaultEnvCmd.Flags().StringVarP(&baseConfigFile, "base", "b", "", "path to the base config file to use")
	return defaultEnvCmd
}

func defaultEnv(out io.Writer, baseFile string) error {
	conf, meta, err := config.GetConfig(nil, baseFile)
	if err != nil {
		return err
	}
	if err = conf.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(conf)
	if err != nil {
		return err
	}
	printSortedEnvVars(out, data, meta.KnownEnvVars)
	return nil
}

// printSortedEnvVars prints VAR=value lines, values are taken from JSON
// encoded config by key path.
func printSortedEnvVars(out io.Writer, confJSON []byte, knownEnvVars map[string]string) {
	envKeys := make([]string, 0, len(knownEnvVars))
	for env := range knownEnvVars {
		envKeys = append(envKeys, env)
	}
	sort.Strings(envKeys)
	for _, env := range envKeys {
		value := gjson.GetBytes(confJSON, knownEnvVars[env])
		if !value.Exists() {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s=%s\n", env, value.Raw)
	}
}
