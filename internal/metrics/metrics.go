package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultMetricsNamespace = "virgo"

// Config contains metrics configuration.
type Config struct {
	// Namespace is the prometheus namespace for all metrics. If empty, defaults to "virgo".
	Namespace string
	// ConstLabels are added to all metrics as constant labels.
	ConstLabels map[string]string
	// Registerer is the prometheus registerer to use. If nil, prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer
}

// Registry holds all virgo metrics.
type Registry struct {
	config Config

	// Render metrics
	rendersTotal          *prometheus.CounterVec
	renderDurationSeconds *prometheus.HistogramVec
	renderBlocksTotal     *prometheus.CounterVec
	renderCellsTotal      *prometheus.CounterVec
	renderFallbackTotal   *prometheus.CounterVec
	rendersInflight       prometheus.Gauge
	renderLimitReached    *prometheus.CounterVec
	wallsRemovedTotal     prometheus.Counter
	httpRequestsTotal     *prometheus.CounterVec
}

// Init creates all metrics and registers them with cfg.Registerer. Calling it
// again replaces collectors used by the helper functions.
func Init(cfg Config) error {
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	RendersTotal = reg.rendersTotal
	RenderDurationSeconds = reg.renderDurationSeconds
	RenderBlocksTotal = reg.renderBlocksTotal
	RenderCellsTotal = reg.renderCellsTotal
	RenderFallbackTotal = reg.renderFallbackTotal
	RendersInflight = reg.rendersInflight
	RenderLimitReached = reg.renderLimitReached
	WallsRemovedTotal = reg.wallsRemovedTotal
	HTTPRequestsTotal = reg.httpRequestsTotal

	return nil
}

func newRegistry(cfg Config) (*Registry, error) {
	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	metricsNamespace := cfg.Namespace
	if metricsNamespace == "" {
		metricsNamespace = defaultMetricsNamespace
	}

	constLabels := prometheus.Labels(cfg.ConstLabels)

	m := &Registry{
		config: cfg,
	}

	m.rendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "render",
		Name:        "total",
		Help:        "Number of wallpaper renders.",
		ConstLabels: constLabels,
	}, []string{"source", "status"})

	m.renderDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "render",
		Name:        "duration_seconds",
		Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		Help:        "Duration of wallpaper render.",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.renderBlocksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "render",
		Name:        "blocks_total",
		Help:        "Number of blocks stamped onto wallpapers.",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.renderCellsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "render",
		Name:        "cells_total",
		Help:        "Number of raster pixels materialized.",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.renderFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "render",
		Name:        "density_fallback_total",
		Help:        "Number of renders where density was too small and 10% fallback was used.",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.rendersInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "render",
		Name:        "inflight",
		Help:        "Number of renders in progress.",
		ConstLabels: constLabels,
	})

	m.renderLimitReached = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "http",
		Name:        "render_limit_reached_total",
		Help:        "Number of requests rejected by render limits.",
		ConstLabels: constLabels,
	}, []string{"reason"})

	m.wallsRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "walls",
		Name:        "removed_total",
		Help:        "Number of expired saved wallpapers removed.",
		ConstLabels: constLabels,
	})

	m.httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "http",
		Name:        "incoming_requests_total",
		Help:        "Number of incoming HTTP requests",
		ConstLabels: constLabels,
	}, []string{"path", "method", "status"})

	var alreadyRegistered prometheus.AlreadyRegisteredError

	collectors := []prometheus.Collector{
		m.rendersTotal,
		m.renderDurationSeconds,
		m.renderBlocksTotal,
		m.renderCellsTotal,
		m.renderFallbackTotal,
		m.rendersInflight,
		m.renderLimitReached,
		m.wallsRemovedTotal,
		m.httpRequestsTotal,
	}

	for _, collector := range collectors {
		err := registerer.Register(collector)
		if err != nil {
			// Ignore if already registered (allows re-initialization in tests)
			if !errors.As(err, &alreadyRegistered) {
				return nil, err
			}
		}
	}

	return m, nil
}
