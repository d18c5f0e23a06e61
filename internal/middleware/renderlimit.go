package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/nickymarino/virgo/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// RenderLimitConfig of RenderLimit.
type RenderLimitConfig struct {
	// MaxConcurrent renders, zero means no limit.
	MaxConcurrent int
	// Rate of allowed requests per second, zero disables rate limiting.
	Rate float64
	// Burst of token bucket.
	Burst int
}

// RenderLimit protects render handlers with a request rate limit and a limit
// of renders running at once.
type RenderLimit struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewRenderLimit creates RenderLimit.
func NewRenderLimit(c RenderLimitConfig) *RenderLimit {
	l := &RenderLimit{}
	if c.MaxConcurrent > 0 {
		l.sem = semaphore.NewWeighted(int64(c.MaxConcurrent))
	}
	if c.Rate > 0 {
		burst := c.Burst
		if burst <= 0 {
			burst = int(math.Ceil(c.Rate))
		}
		l.limiter = rate.NewLimiter(rate.Limit(c.Rate), burst)
	}
	return l
}

// Middleware rejects requests over rate with 429 and requests over concurrency
// limit with 503.
func (l *RenderLimit) Middleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limiter != nil {
			reservation := l.limiter.Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				metrics.IncRenderLimitReached("rate")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
		}
		if l.sem != nil {
			if !l.sem.TryAcquire(1) {
				metrics.IncRenderLimitReached("concurrency")
				log.Warn().Str("path", r.URL.Path).Msg("concurrent render limit reached")
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			defer l.sem.Release(1)
		}
		defer metrics.IncRendersInflight()()
		h.ServeHTTP(w, r)
	})
}
