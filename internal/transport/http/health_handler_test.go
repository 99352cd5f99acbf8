package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/internal/config"
	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/services"
	"localtaxdash/internal/shared/testutil"
	"localtaxdash/pkg/contracts"
)

func newHealthRouter(ds *services.Dataset) http.Handler {
	h := NewHealthHandler(services.NewHealthService(ds, nil), nil, apierrors.NewErrorHandler(nil, false))
	r := chi.NewRouter()
	r.Get("/api/health", h.HealthCheck)
	r.Get("/api/health/ready", h.ReadinessCheck)
	r.Get("/api/health/live", h.LivenessCheck)
	r.Get("/api/health/dataset", h.DatasetStatus)
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler_Loaded(t *testing.T) {
	csvPath, geoPath := testutil.WriteDataset(t, t.TempDir())
	ds, err := services.NewDatasetLoader(config.Default().Dashboard, nil, nil, nil).Load(context.Background(), csvPath, geoPath)
	require.NoError(t, err)
	router := newHealthRouter(ds)

	tests := []struct {
		target string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{"/api/health", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Equal(t, services.StatusOK, body["status"])
		}},
		{"/api/health/ready", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Equal(t, services.StatusReady, body["status"])
		}},
		{"/api/health/live", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Equal(t, services.StatusAlive, body["status"])
		}},
		{"/api/health/dataset", http.StatusOK, func(t *testing.T, body map[string]any) {
			summary := body["summary"].(map[string]any)
			assert.EqualValues(t, 12, summary["rows"])
			assert.Equal(t, true, body["boundaries"])
		}},
		{"/api/version", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Equal(t, contracts.Version, body["version"])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := doGet(t, router, tt.target)
			require.Equal(t, tt.status, rec.Code)
			tt.check(t, decodeBody(t, rec))
		})
	}
}

func TestHealthHandler_NotLoaded(t *testing.T) {
	router := newHealthRouter(nil)

	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, router, "/api/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, doGet(t, router, "/api/health/ready").Code)
	assert.Equal(t, http.StatusOK, doGet(t, router, "/api/health/live").Code)

	rec := doGet(t, router, "/api/health/dataset")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apierrors.TypeDataUnavailable, decodeBody(t, rec)["type"])
}
