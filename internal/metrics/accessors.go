package metrics

import "github.com/prometheus/client_golang/prometheus"

// Render metrics. They stay nil until Init is called, helper functions are
// no-ops in that case.
var (
	RendersTotal          *prometheus.CounterVec
	RenderDurationSeconds *prometheus.HistogramVec
	RenderBlocksTotal     *prometheus.CounterVec
	RenderCellsTotal      *prometheus.CounterVec
	RenderFallbackTotal   *prometheus.CounterVec
	RendersInflight       prometheus.Gauge
)

// HTTP and service metrics.
var (
	RenderLimitReached *prometheus.CounterVec
	WallsRemovedTotal  prometheus.Counter
	HTTPRequestsTotal  *prometheus.CounterVec
)
