// Package graphite periodically pushes prometheus metrics to Graphite.
package graphite

import (
	"context"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/FZambia/eagle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var re = regexp.MustCompile("[[:^ascii:]]")

// PreparePathComponent cleans string to be used as Graphite metric path.
func PreparePathComponent(s string) string {
	s = re.ReplaceAllLiteralString(s, "_")
	return strings.Replace(s, ".", "_", -1)
}

// Config for Graphite Exporter.
type Config struct {
	Address  string
	Gatherer prometheus.Gatherer
	Interval time.Duration
	Prefix   string
	// Tags sends labels as Graphite tags instead of path components.
	Tags bool
}

// Exporter to Graphite.
type Exporter struct {
	config  Config
	timeout time.Duration
	sink    chan eagle.Metrics
	eagle   *eagle.Eagle
	now     func() time.Time
}

// New creates new Graphite Exporter.
func New(c Config) *Exporter {
	c.Prefix = strings.TrimSuffix(c.Prefix, ".")
	exporter := &Exporter{
		config:  c,
		timeout: time.Second,
		sink:    make(chan eagle.Metrics),
		now:     time.Now,
	}
	exporter.eagle = eagle.New(eagle.Config{
		Gatherer: c.Gatherer,
		Interval: c.Interval,
		Sink:     exporter.sink,
	})
	return exporter
}

// Run exports metrics on every interval until ctx is done.
func (e *Exporter) Run(ctx context.Context) error {
	defer func() { _ = e.eagle.Close() }()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case metrics := <-e.sink:
			if err := e.exportOnce(metrics); err != nil {
				log.Warn().Err(err).Str("address", e.config.Address).Msg("error exporting metrics to Graphite")
			}
		}
	}
}

func (e *Exporter) exportOnce(metrics eagle.Metrics) error {
	conn, err := net.DialTimeout("tcp", e.config.Address, e.timeout)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetWriteDeadline(e.now().Add(e.timeout))
	return e.write(conn, metrics)
}

func makeTags(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	var tagParts []string
	for i := 0; i+1 < len(labels); i += 2 {
		tagParts = append(tagParts, fmt.Sprintf("%s=%s", labels[i], labels[i+1]))
	}
	return ";" + strings.Join(tagParts, ";")
}

// key builds metric path from non-empty name parts and labels.
func (e *Exporter) key(names []string, labels []string) string {
	parts := []string{}
	for _, p := range append([]string{e.config.Prefix}, names...) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.config.Tags {
		return strings.Join(parts, ".") + makeTags(labels)
	}
	for _, l := range labels {
		parts = append(parts, PreparePathComponent(l))
	}
	return strings.Join(parts, ".")
}

func (e *Exporter) write(w io.Writer, metrics eagle.Metrics) error {
	now := e.now().Unix()
	for _, item := range metrics.Items {
		for _, metricValue := range item.Values {
			key := e.key([]string{item.Namespace, item.Subsystem, item.Name, metricValue.Name}, metricValue.Labels)
			var err error
			if item.Type == eagle.MetricTypeCounter {
				_, err = fmt.Fprintf(w, "%s %d %d\n", key, int64(metricValue.Value), now)
			} else {
				_, err = fmt.Fprintf(w, "%s %f %d\n", key, metricValue.Value, now)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
