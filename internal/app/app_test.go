package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWallsDirCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, wallsDirCheck(dir)(context.Background()))

	require.Error(t, wallsDirCheck(filepath.Join(dir, "missing"))(context.Background()))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	require.EqualError(t, wallsDirCheck(file)(context.Background()), "walls path is not a directory")
}

func TestHTTPErrorLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &httpErrorLogWriter{Logger: zerolog.New(&buf)}
	n, err := w.Write([]byte("http: TLS handshake error\n"))
	require.NoError(t, err)
	require.Equal(t, 26, n)
	require.JSONEq(t, `{"level":"warn","message":"http: TLS handshake error"}`, buf.String())
}
