package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BitFracture/squirrel-lighting-control/internal/platform/version"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllGroupsRegisterOnOneRegistry(t *testing.T) {
	reg := NewRegistry()

	require.NotPanics(t, func() {
		NewDiscoveryMetrics(reg)
		NewRegistryMetrics(reg)
		NewBroadcastMetrics(reg)
		NewStatusStreamMetrics(reg)
		NewHTTPMetrics(reg)
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewBroadcastMetrics(reg)

	assert.Panics(t, func() { NewBroadcastMetrics(reg) })
}

func TestDiscoveryMetrics_CountByResult(t *testing.T) {
	m := NewDiscoveryMetrics(prometheus.NewRegistry())

	m.Datagrams.WithLabelValues(ResultAccepted).Inc()
	m.Datagrams.WithLabelValues(ResultAccepted).Inc()
	m.Datagrams.WithLabelValues(ResultFirmware).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Datagrams.WithLabelValues(ResultAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Datagrams.WithLabelValues(ResultFirmware)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Datagrams.WithLabelValues(ResultMalformed)))
}

func TestHTTPMetrics_SkipsMetricsAndHealth(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/metrics", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/clients", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/metrics", "/health/live", "/api/clients", "/api/clients"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/api/clients", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewBroadcastMetrics(reg)
	m.Cycles.Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "squirrel_broadcast_cycles_total 1")
}

func TestRegisterBuildInfo(t *testing.T) {
	reg := prometheus.NewRegistry()
	info := version.Info{Version: "1.2.0", Commit: "abc1234", GoVersion: "go1.24.0", InstanceID: "id-1"}

	RegisterBuildInfo(reg, info)

	count, err := testutil.GatherAndCount(reg, "squirrel_build_info")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
