// Package rest provides the HTTP REST API layer for augerd. It includes a
// chi router, x-api-key authentication middleware, and handler functions for
// every route spec.md §6 names.
package rest

import (
	"encoding/json"
	"net/http"
)

// APIKeyMiddleware returns an HTTP middleware that requires the x-api-key
// header to match one of keys. On a missing or unrecognized key it responds
// with HTTP 401 and does not call next.
func APIKeyMiddleware(keys []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("x-api-key")
			if key == "" || !allowed[key] {
				writeError(w, http.StatusUnauthorized, "missing or invalid x-api-key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "<message>"}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
