package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	name string
	err  error
}

func (p stubProbe) Name() string                    { return p.name }
func (p stubProbe) Check(ctx context.Context) error { return p.err }

func TestHealthAllProbesHealthy(t *testing.T) {
	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{
		stubProbe{name: "metrics-api"},
		stubProbe{name: "database"},
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Components["metrics-api"].Status)
	assert.Equal(t, "healthy", resp.Components["database"].Status)
}

func TestHealthFailingProbeReturns503(t *testing.T) {
	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{
		stubProbe{name: "metrics-api"},
		stubProbe{name: "database", err: errors.New("connection refused")},
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["database"].Status)
	assert.Contains(t, resp.Components["database"].Message, "connection refused")
}

type panicProbe struct{}

func (panicProbe) Name() string                { return "flaky" }
func (panicProbe) Check(context.Context) error { panic("probe exploded") }

func TestHealthPanickingProbeIsUnhealthy(t *testing.T) {
	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{panicProbe{}}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() { s.HandleHealth(rec, req) })
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "probe panicked")
}
