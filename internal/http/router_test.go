package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businesshandler "permitmap/internal/business/handler"
	"permitmap/internal/business/service"
	"permitmap/internal/business/store"
	"permitmap/internal/compliance"
	"permitmap/internal/mapview"
	mapviewhandler "permitmap/internal/mapview/handler"
	"permitmap/internal/mapview/loader"
	"permitmap/internal/mapview/provider"
	"permitmap/internal/mapview/session"
)

type staticCheck struct{ err error }

func (c staticCheck) Health(ctx context.Context) error { return c.err }

func newTestDeps(checks map[string]HealthChecker) Deps {
	mem := store.NewInMemory()
	svc := service.New(mem, nil, nil)
	ld := loader.New(loader.BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		return provider.NewHeadless(nil), nil
	}), "test-key")
	mgr := session.NewManager(func(filter compliance.Filter) *mapview.Controller {
		return mapview.NewController(svc, ld, mapview.WithInitialFilter(filter))
	}, nil)
	return Deps{
		Businesses: businesshandler.New(svc, nil),
		MapView:    mapviewhandler.New(mgr, nil),
		Checks:     checks,
	}
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := NewRouter(newTestDeps(map[string]HealthChecker{"redis": staticCheck{}}))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "ok", body["redis"])
	})

	t.Run("degraded backend", func(t *testing.T) {
		router := NewRouter(newTestDeps(map[string]HealthChecker{
			"redis": staticCheck{err: errors.New("connection refused")},
		}))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "degraded", body["status"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(newTestDeps(nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRoutesMounted(t *testing.T) {
	router := NewRouter(newTestDeps(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/businesses", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/map/sessions/none", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
