package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfacility/facility-status/internal/config"
	"github.com/openfacility/facility-status/internal/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Seed.ResourcesPerType = 1

	a, err := New(context.Background(), &cfg)
	require.NoError(t, err)
	return a
}

func TestApp_Healthz(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestApp_Readyz(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_Version(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload, "version")
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))
}

func TestApp_VersionConditionalGet(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("If-Modified-Since", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestApp_BootstrapThenSweep(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Simulator().PruneHistory(ctx))
	require.NoError(t, a.Simulator().Bootstrap(ctx))

	// All seeded resources are up after bootstrap.
	resources, err := a.repo.ListResources(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, resources)
	for _, res := range resources {
		assert.Equal(t, domain.StatusUp, res.CurrentStatus)
	}

	// A transition sweep over the bootstrapped state must not error.
	require.NoError(t, a.Simulator().TransitionIncidents(ctx))
}
