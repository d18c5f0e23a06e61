package metrics

import (
	"strconv"
	"time"
)

// SourceHTTP labels renders started by HTTP requests.
const SourceHTTP = "http"

// ObserveRender records a finished render.
func ObserveRender(source string, started time.Time, status string, blocks int, cells int, fallback bool) {
	if RendersTotal == nil {
		return
	}
	RendersTotal.WithLabelValues(source, status).Inc()
	RenderDurationSeconds.WithLabelValues(source).Observe(time.Since(started).Seconds())
	if blocks > 0 {
		RenderBlocksTotal.WithLabelValues(source).Add(float64(blocks))
	}
	if cells > 0 {
		RenderCellsTotal.WithLabelValues(source).Add(float64(cells))
	}
	if fallback {
		RenderFallbackTotal.WithLabelValues(source).Inc()
	}
}

// IncRendersInflight increments in-flight render gauge and returns a function
// to decrement it.
func IncRendersInflight() func() {
	if RendersInflight == nil {
		return func() {}
	}
	RendersInflight.Inc()
	return RendersInflight.Dec
}

// IncRenderLimitReached counts a request rejected by a render limit.
func IncRenderLimitReached(reason string) {
	if RenderLimitReached == nil {
		return
	}
	RenderLimitReached.WithLabelValues(reason).Inc()
}

// AddWallsRemoved counts removed expired walls.
func AddWallsRemoved(n int) {
	if WallsRemovedTotal == nil || n == 0 {
		return
	}
	WallsRemovedTotal.Add(float64(n))
}

// IncHTTPRequest counts a served HTTP request.
func IncHTTPRequest(path string, method string, status int) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}
