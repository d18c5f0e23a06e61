package graphite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreparePathComponent(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{in: "service", out: "service"},
		{in: "service.local", out: "service_local"},
		{in: "service.prod.", out: "service_prod_"},
		{in: "приvет", out: "___v__"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.out, PreparePathComponent(tc.in))
	}
}

func TestKey(t *testing.T) {
	names := []string{"virgo", "render", "total", ""}
	labels := []string{"source", "http", "status", "ok"}

	e := &Exporter{config: Config{Prefix: "stats"}}
	require.Equal(t, "stats.virgo.render.total.source.http.status.ok", e.key(names, labels))

	e = &Exporter{config: Config{Prefix: "stats", Tags: true}}
	require.Equal(t, "stats.virgo.render.total;source=http;status=ok", e.key(names, labels))

	e = &Exporter{config: Config{}}
	require.Equal(t, "virgo.render.total.host.a_b", e.key(names, []string{"host", "a.b"}))
}

func TestMakeTags(t *testing.T) {
	require.Equal(t, "", makeTags(nil))
	require.Equal(t, ";a=1;b=2", makeTags([]string{"a", "1", "b", "2"}))
}
