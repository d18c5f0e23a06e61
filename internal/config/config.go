// Package config contains virgo Config and the code to load it.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/nickymarino/virgo/internal/configtypes"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-envparse"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is a prefix of environment variables which override config keys:
// http_server.port becomes VIRGO_HTTP_SERVER_PORT.
const EnvPrefix = "VIRGO"

type Config struct {
	// Log is a configuration for logging.
	Log configtypes.Log `mapstructure:"log" json:"log" toml:"log" yaml:"log"`
	// HTTP is a configuration for virgo HTTP server.
	HTTP configtypes.HTTPServer `mapstructure:"http_server" json:"http_server" toml:"http_server" yaml:"http_server"`
	// Render contains wallpaper engine tunables.
	Render configtypes.Render `mapstructure:"render" json:"render" toml:"render" yaml:"render"`
	// Defaults are wallpaper parameters used when request omits them.
	Defaults configtypes.Defaults `mapstructure:"defaults" json:"defaults" toml:"defaults" yaml:"defaults"`
	// Walls configures where web form wallpapers are kept and for how long.
	Walls configtypes.Walls `mapstructure:"walls" json:"walls" toml:"walls" yaml:"walls"`
	// Prometheus metrics configuration.
	Prometheus configtypes.Prometheus `mapstructure:"prometheus" json:"prometheus" toml:"prometheus" yaml:"prometheus"`
	// Graphite is a configuration for export metrics to Graphite.
	Graphite configtypes.Graphite `mapstructure:"graphite" json:"graphite" toml:"graphite" yaml:"graphite"`
	// Health check endpoint configuration.
	Health configtypes.Health `mapstructure:"health" json:"health" toml:"health" yaml:"health"`
	// Shutdown is a configuration for graceful shutdown.
	Shutdown configtypes.Shutdown `mapstructure:"shutdown" json:"shutdown" toml:"shutdown" yaml:"shutdown"`

	// PidFile is a path to write a file with virgo process PID.
	PidFile string `mapstructure:"pid_file" json:"pid_file" toml:"pid_file" yaml:"pid_file"`
}

type Meta struct {
	FileNotFound bool
	UnknownKeys  []string
	UnknownEnvs  []string
	// KnownEnvVars maps environment variable names to config keys.
	KnownEnvVars map[string]string
}

var bindPFlags = []string{
	"pid_file", "http_server.port", "http_server.address", "http_server.max_concurrent_renders",
	"log.level", "log.file", "prometheus.enabled", "health.enabled", "walls.dir", "walls.ttl",
}

func DefineFlags(rootCmd *cobra.Command) {
	rootCmd.Flags().StringP("pid_file", "", "", "optional path to create PID file")
	rootCmd.Flags().StringP("http_server.address", "a", "", "interface address to listen on")
	rootCmd.Flags().StringP("http_server.port", "p", "8000", "port to bind HTTP server to")
	rootCmd.Flags().IntP("http_server.max_concurrent_renders", "", 4, "maximum number of renders running at once, 0 means no limit")
	rootCmd.Flags().StringP("log.level", "", "info", "set the log level: trace, debug, info, error, fatal or none")
	rootCmd.Flags().StringP("log.file", "", "", "optional log file - if not specified logs go to STDOUT")
	rootCmd.Flags().BoolP("prometheus.enabled", "", false, "enable Prometheus metrics endpoint")
	rootCmd.Flags().BoolP("health.enabled", "", false, "enable health check endpoint")
	rootCmd.Flags().StringP("walls.dir", "", "walls", "directory to save web form wallpapers to")
	rootCmd.Flags().StringP("walls.ttl", "", "24h", "how long saved wallpapers are kept, 0 keeps them forever")
}

func GetConfig(cmd *cobra.Command, configFile string) (Config, Meta, error) {
	v := viper.NewWithOptions(viper.WithDecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		configtypes.StringToDurationHookFunc(),
	)))

	knownEnvVars := map[string]string{}
	setDefaults(v, reflect.TypeOf(Config{}), "", knownEnvVars)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for _, flag := range bindPFlags {
			if f := cmd.Flags().Lookup(flag); f != nil {
				_ = v.BindPFlag(flag, f)
			}
		}
	}

	meta := Meta{}

	if configFile != "" {
		v.SetConfigFile(configFile)
		err := v.ReadInConfig()
		if err != nil {
			var configFileNotFoundError *os.PathError
			if errors.As(err, &configFileNotFoundError) {
				meta.FileNotFound = true
			} else {
				return Config{}, Meta{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	conf := &Config{}

	err := v.Unmarshal(conf)
	if err != nil {
		return Config{}, Meta{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	meta.UnknownKeys = findUnknownKeys(v.AllSettings(), conf, "")
	meta.UnknownEnvs = checkEnvironmentVars(knownEnvVars)
	meta.KnownEnvVars = knownEnvVars

	return *conf, meta, nil
}

var durationType = reflect.TypeOf(configtypes.Duration(0))

// setDefaults registers every config key in v using values of `default` tags,
// so that environment variables are picked up for all of them.
func setDefaults(v *viper.Viper, typ reflect.Type, parentKey string, knownEnvVars map[string]string) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := appendKeyPath(parentKey, tag)
		if field.Type.Kind() == reflect.Struct && field.Type != durationType {
			setDefaults(v, field.Type, key, knownEnvVars)
			continue
		}
		if def, ok := field.Tag.Lookup("default"); ok {
			v.SetDefault(key, def)
		} else {
			v.SetDefault(key, reflect.Zero(field.Type).Interface())
		}
		knownEnvVars[EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
}

func findUnknownKeys(data map[string]interface{}, configStruct interface{}, parentKey string) []string {
	var unknownKeys []string
	val := reflect.ValueOf(configStruct)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	validKeys := make(map[string]reflect.StructField)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if tag := field.Tag.Get("mapstructure"); tag != "" {
			validKeys[tag] = field
		}
	}

	for key, value := range data {
		field, exists := validKeys[key]
		if !exists {
			unknownKeys = append(unknownKeys, appendKeyPath(parentKey, key))
			continue
		}
		if field.Type.Kind() != reflect.Struct || field.Type == durationType {
			continue
		}
		if nestedMap, ok := value.(map[string]interface{}); ok {
			nestedStruct := val.FieldByName(field.Name).Interface()
			unknownKeys = append(unknownKeys, findUnknownKeys(nestedMap, nestedStruct, appendKeyPath(parentKey, key))...)
		}
	}

	return unknownKeys
}

func appendKeyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func checkEnvironmentVars(knownEnvVars map[string]string) []string {
	var unknownEnvs []string
	envPrefix := EnvPrefix + "_"
	envVars := os.Environ()

	for _, envVar := range envVars {
		kv, err := envparse.Parse(strings.NewReader(envVar))
		if err != nil {
			continue
		}
		for envKey := range kv {
			if !strings.HasPrefix(envKey, envPrefix) {
				continue
			}
			if _, ok := knownEnvVars[envKey]; !ok {
				unknownEnvs = append(unknownEnvs, envKey)
			}
		}
	}
	return unknownEnvs
}

// DefaultConfig is a helper to be used in tests.
func DefaultConfig() Config {
	conf, _, err := GetConfig(nil, "")
	if err != nil {
		panic("error during getting default config: " + err.Error())
	}
	return conf
}
