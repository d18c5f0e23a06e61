package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogRequest middleware logs details of request.
func LogRequest(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			start := time.Now()
			lrw := &statusResponseWriter{ResponseWriter: w}
			h.ServeHTTP(lrw, r)
			addr := r.Header.Get("X-Real-IP")
			if addr == "" {
				addr = r.Header.Get("X-Forwarded-For")
				if addr == "" {
					addr = r.RemoteAddr
				}
			}
			requestID, _ := GetRequestIDFromContext(r.Context())
			event := log.Debug().Str("method", r.Method).Int("status", lrw.Status()).Str("path", r.URL.Path).
				Str("addr", addr).Str("request_id", requestID).Str("duration", time.Since(start).String())
			// Render responses carry seed and block count.
			if seed := w.Header().Get("X-Seed"); seed != "" {
				event = event.Str("seed", seed).Str("blocks", w.Header().Get("X-Blocks"))
			}
			event.Msg("http request")
		} else {
			h.ServeHTTP(w, r)
		}
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader allows us to save status code.
func (lrw *statusResponseWriter) WriteHeader(status int) {
	if lrw.status == 0 {
		lrw.status = status
	}
	lrw.ResponseWriter.WriteHeader(status)
}

// Status code allows to get saved status code after handler finished its work.
func (lrw *statusResponseWriter) Status() int {
	if lrw.status == 0 {
		return http.StatusOK
	}
	return lrw.status
}

// Flush passes through to the underlying writer when it supports flushing.
func (lrw *statusResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
