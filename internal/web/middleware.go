package web

import (
	"crypto/subtle"
	"net/http"
)

// RequireAPIKey rejects requests whose X-API-Key header does not match the
// configured key. An empty configured key disables the check, for local
// development only.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" {
				provided := r.Header.Get("X-API-Key")
				if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
					writeError(w, http.StatusUnauthorized, "invalid or missing API key")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
