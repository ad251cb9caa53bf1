package httpserver

import (
	"net/http"
	"time"
)

// Session mounts block on the map provider bootstrap, which is bounded by
// MAPS_LOAD_TIMEOUT (30s default). The write timeout must stay above that
// bound or slow bootstraps get their 201 cut off mid-response.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 2 * time.Minute
)

// New builds an HTTP server tuned for the permit map API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
