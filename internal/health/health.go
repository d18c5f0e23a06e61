package health

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/encoding/json"
)

// Check reports a problem which makes the node unhealthy.
type Check func(ctx context.Context) error

// Config of health check handler.
type Config struct {
	// Checks run on every request, the first failed one makes response 503.
	Checks []Check
	// Timeout for all checks, one second if zero.
	Timeout time.Duration
}

// Handler handles health endpoint.
type Handler struct {
	config Config
}

// NewHandler creates new Handler.
func NewHandler(c Config) *Handler {
	if c.Timeout <= 0 {
		c.Timeout = time.Second
	}
	return &Handler{
		config: c,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()
	for _, check := range h.config.Checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			data, _ := json.Marshal(errorResponse{Error: err.Error()})
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write(data)
			return
		}
	}
	_, _ = w.Write([]byte(`{}`))
}
