package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries request id in requests and responses.
const RequestIDHeader = "X-Request-Id"

type contextRequestIDKey struct{}

// GetRequestIDFromContext returns request id from context.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	if val := ctx.Value(contextRequestIDKey{}); val != nil {
		id, ok := val.(string)
		return id, ok
	}
	return "", false
}

func SetRequestIDToContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextRequestIDKey{}, id)
}

// RequestID puts request id into request context and response headers. The id
// from incoming X-Request-Id header is reused, a new one is generated otherwise.
func RequestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		h.ServeHTTP(w, r.WithContext(SetRequestIDToContext(r.Context(), id)))
	})
}
