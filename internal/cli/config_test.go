package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	for _, ext := range []string{"json", "toml", "yaml", "yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config."+ext)
			require.NoError(t, DefaultConfig(path))
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Contains(t, string(data), "max_concurrent_renders")
			require.NoError(t, checkConfig(nil, path, true))
		})
	}
}

func TestDefaultConfigErrors(t *testing.T) {
	dir := t.TempDir()

	require.Error(t, DefaultConfig(filepath.Join(dir, "config.ini")))

	existing := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0644))
	err := DefaultConfig(existing)
	require.EqualError(t, err, "target file already exists")
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()

	err := checkConfig(nil, filepath.Join(dir, "missing.json"), false)
	require.EqualError(t, err, "config file not found")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"http_server": {"port": 0}}`), 0644))
	err = checkConfig(nil, invalid, false)
	require.ErrorContains(t, err, "error validating config")

	unknown := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"log": {"level": "debug", "colour": true}}`), 0644))
	require.NoError(t, checkConfig(nil, unknown, false))
	err = checkConfig(nil, unknown, true)
	require.ErrorContains(t, err, "log.colour")
}

func TestDefaultEnv(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, defaultEnv(&out, ""))
	text := out.String()
	require.Contains(t, text, "VIRGO_HTTP_SERVER_PORT=8000\n")
	require.Contains(t, text, `VIRGO_LOG_LEVEL="info"`+"\n")
	require.Contains(t, text, `VIRGO_HTTP_SERVER_RENDER_TIMEOUT="30s"`+"\n")
	require.Contains(t, text, "VIRGO_HTTP_SERVER_RATE_LIMIT_ENABLED=false\n")

	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := 1; i < len(lines); i++ {
		require.Less(t, lines[i-1], lines[i])
	}
}
