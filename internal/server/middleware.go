// Package server carries the HTTP middleware for the Salachat service:
// request logging and CORS headers for the non-WebSocket endpoints.
package server

import (
	"net/http"

	"go.uber.org/zap"
)

// requestLog logs each HTTP request with its method and path.
func (rt *Router) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr))
		next.ServeHTTP(w, r)
	})
}

// cors reflects the configured origin policy onto plain HTTP responses.
// WebSocket upgrades are governed separately by the upgrader's origin
// check; this covers the auth and static endpoints used by browsers.
func (rt *Router) cors(next http.Handler) http.Handler {
	allowAll := false
	for _, origin := range rt.cfg.AllowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if normalized, ok := normalizeOrigin(origin); ok {
				for _, allowed := range rt.cfg.AllowedOrigins {
					if candidate, ok := normalizeOrigin(allowed); ok && candidate == normalized {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Set("Vary", "Origin")
						break
					}
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
