package middleware

import (
	"net/http"

	"github.com/nickymarino/virgo/internal/metrics"
)

// HTTPServerInstrumentation is a middleware to instrument HTTP handlers. Path
// is a handler pattern rather than r.URL.Path to keep label cardinality low.
func HTTPServerInstrumentation(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		metrics.IncHTTPRequest(path, r.Method, rw.Status())
	})
}
