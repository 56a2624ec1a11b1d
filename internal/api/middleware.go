/**
 * @description
 * This file contains custom middleware for the HTTP router. The lending
 * service exposes one operational surface (the billing trigger) that must not
 * be reachable by end users; it is gated by a shared internal API key the
 * scheduler and ops tooling present.
 */

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// internalKeyHeader carries the shared key on operational requests.
const internalKeyHeader = "X-Internal-Api-Key"

// InternalKeyMiddleware rejects requests that do not present the configured
// internal API key. An empty configured key closes the surface entirely.
func InternalKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			configured := strings.TrimSpace(key)
			if configured == "" {
				http.Error(w, "Internal endpoints are disabled", http.StatusForbidden)
				return
			}
			presented := strings.TrimSpace(r.Header.Get(internalKeyHeader))
			if subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) != 1 {
				http.Error(w, "Invalid internal API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
