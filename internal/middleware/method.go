package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// Post checks that handler called via POST HTTP method.
func Post(h http.Handler) http.Handler {
	return Method(h, http.MethodPost)
}

// Get checks that handler called via GET or HEAD HTTP method.
func Get(h http.Handler) http.Handler {
	return Method(h, http.MethodGet, http.MethodHead)
}

// Method allows only listed HTTP methods and responds with 405 otherwise.
func Method(h http.Handler, methods ...string) http.Handler {
	allow := strings.Join(methods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(methods, r.Method) {
			w.Header().Set("Allow", allow)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ServeHTTP(w, r)
	})
}
