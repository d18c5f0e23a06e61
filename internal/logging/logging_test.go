package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nickymarino/virgo/internal/configtypes"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, Level("debug"))
	require.Equal(t, zerolog.WarnLevel, Level("WARN"))
	require.Equal(t, zerolog.Disabled, Level("none"))
	require.Equal(t, zerolog.InfoLevel, Level("unknown"))
}

func TestSetupFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "virgo.log")
	closeFn, err := Setup(configtypes.Log{Level: "warn", File: path})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	require.True(t, Enabled(zerolog.ErrorLevel))
	require.False(t, Enabled(zerolog.InfoLevel))

	log.Info().Msg("hidden")
	log.Warn().Msg("visible")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "visible")
	require.NotContains(t, string(data), "hidden")
}

func TestSetupFileError(t *testing.T) {
	_, err := Setup(configtypes.Log{File: filepath.Join(t.TempDir(), "missing", "virgo.log")})
	require.Error(t, err)
}
