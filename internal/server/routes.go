// Package server wires HTTP handlers into a ServeMux for the Salachat
// application via routing helpers.
package server

import "net/http"

// Routes configures and returns the application's HTTP handler: health
// check, WebSocket endpoint, auth endpoint, test page, and static assets,
// wrapped in the request-logging and CORS middleware.
func (rt *Router) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.HealthHandler)
	mux.HandleFunc("/ws", rt.WebSocketHandler)
	mux.HandleFunc("/auth", rt.AuthHandler)
	mux.HandleFunc("/test", rt.TestPageHandler)

	if rt.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(rt.cfg.StaticDir)))
	} else {
		mux.HandleFunc("/", rt.HealthHandler)
	}

	return rt.requestLog(rt.cors(mux))
}
