package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyahchat/sitegen/internal/build"
)

func TestHealthHandler_DegradedBeforeFirstBuild(t *testing.T) {
	d, err := New(testConfig(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	d.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// Degraded is still a 200: the process is up, just not serving a
	// build yet.
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, HealthStatusDegraded, health.Status)
	require.Len(t, health.Checks, 3)
	for _, c := range health.Checks {
		assert.Equal(t, HealthStatusDegraded, c.Status, c.Name)
	}
}

func TestHealthHandler_HealthyWhenRunningWithGoodBuild(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg)
	require.NoError(t, err)

	d.status.Store(StatusRunning)
	d.lastReport = &build.BuildReport{Outcome: build.OutcomeSuccess, RenderedPages: 2}
	require.NoError(t, os.MkdirAll(cfg.Output.Directory, 0o755))

	rec := httptest.NewRecorder()
	d.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, HealthStatusHealthy, health.Status)
}

func TestHealthHandler_ErrorStateIsUnhealthy(t *testing.T) {
	d, err := New(testConfig(t))
	require.NoError(t, err)

	d.status.Store(StatusError)

	rec := httptest.NewRecorder()
	d.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, HealthStatusUnhealthy, health.Status)
}

func TestHealthChecks_FailedBuildDegrades(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg)
	require.NoError(t, err)

	d.status.Store(StatusRunning)
	d.lastReport = &build.BuildReport{BuildID: "b1", Outcome: build.OutcomeFailed}
	require.NoError(t, os.MkdirAll(cfg.Output.Directory, 0o755))

	health := d.PerformHealthChecks()
	assert.Equal(t, HealthStatusDegraded, health.Status)
}
