package app

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/nickymarino/virgo/internal/config"
	"github.com/nickymarino/virgo/internal/metrics/graphite"

	"github.com/prometheus/client_golang/prometheus"
)

func graphiteExporter(cfg config.Config, gatherer prometheus.Gatherer) *graphite.Exporter {
	prefix := strings.TrimSuffix(cfg.Graphite.Prefix, ".")
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		prefix += "." + graphite.PreparePathComponent(hostname)
	}
	return graphite.New(graphite.Config{
		Address:  net.JoinHostPort(cfg.Graphite.Host, strconv.Itoa(cfg.Graphite.Port)),
		Gatherer: gatherer,
		Prefix:   prefix,
		Interval: cfg.Graphite.Interval.ToDuration(),
		Tags:     cfg.Graphite.Tags,
	})
}
