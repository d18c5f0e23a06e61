package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickymarino/virgo/internal/config"
	"github.com/nickymarino/virgo/internal/tools"

	"github.com/pelletier/go-toml/v2"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func DefaultConfigCommand() *cobra.Command {
	var defaultConfigFile string
	var defaultConfigCmd = &cobra.Command{
		Use:   "defaultconfig",
		Short: "Generate full configuration file with defaults",
		Long:  `Generate full virgo configuration file with defaults`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := DefaultConfig(defaultConfigFile); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	defaultConfigCmd.Flags().StringVarP(&defaultConfigFile, "config", "c", "config.json", "path to default config file to generate")
	return defaultConfigCmd
}

var supportedExtensions = []string{"json", "toml", "yaml", "yml"}

// DefaultConfig writes configuration with default values into configFile.
// Format is chosen by file extension. Existing file is never overwritten.
func DefaultConfig(configFile string) error {
	exists, err := tools.PathExists(configFile)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("target file already exists")
	}
	conf, _, err := config.GetConfig(nil, "")
	if err != nil {
		return err
	}
	if err = conf.Validate(); err != nil {
		return err
	}

	ext := filepath.Ext(configFile)
	if len(ext) > 1 {
		ext = ext[1:]
	}

	var b []byte
	switch ext {
	case "json":
		b, err = json.MarshalIndent(conf, "", "  ")
	case "toml":
		b, err = toml.Marshal(conf)
	case "yaml", "yml":
		b, err = yaml.Marshal(conf)
	default:
		err = errors.New("output config file must have one of supported extensions: " + strings.Join(supportedExtensions, ", "))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(configFile, b, 0644)
}
