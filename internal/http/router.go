// Package httpapi assembles the public HTTP surface: middleware chain,
// feature routes, health and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	businesshandler "permitmap/internal/business/handler"
	mapviewhandler "permitmap/internal/mapview/handler"
	"permitmap/internal/platform/middleware"
	"permitmap/pkg/platform/httputil"
)

// HealthChecker reports readiness of an attached backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger     *slog.Logger
	Businesses *businesshandler.Handler
	MapView    *mapviewhandler.Handler

	// Checks run on /healthz; a nil map means the process alone is the
	// health signal.
	Checks map[string]HealthChecker
}

// NewRouter wires the middleware chain and all public endpoints.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.ContentTypeJSON)

	r.Route("/api/v1", func(r chi.Router) {
		deps.Businesses.Register(r)
		deps.MapView.Register(r)
	})

	r.Get("/healthz", healthHandler(deps.Checks))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		healthy := true
		for name, check := range checks {
			if err := check.Health(r.Context()); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}
		if !healthy {
			status["status"] = "degraded"
			httputil.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, status)
	}
}
