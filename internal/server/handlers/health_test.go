package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pokemon-map/internal/shared/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type staticCache string

func (s staticCache) Status(context.Context) string { return string(s) }

func TestHealth(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })

	tests := []struct {
		name      string
		cache     CacheStatus
		wantCache string
	}{
		{name: "all up", cache: staticCache("connected"), wantCache: "connected"},
		{name: "no cache", cache: nil, wantCache: "disabled"},
		{name: "cache down", cache: staticCache("disconnected"), wantCache: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(up, tt.cache)
			h.now = func() time.Time { return time.Date(2019, 8, 9, 10, 0, 0, 0, time.UTC) }

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "healthy", body.Status)
			assert.Equal(t, "2019-08-09T10:00:00Z", body.Timestamp)
			assert.Equal(t, "connected", body.Database)
			assert.Equal(t, tt.wantCache, body.Cache)
		})
	}
}

func TestHealthDatabaseDown(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") })
	h := NewHealthHandler(down, staticCache("connected"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "external", body.Error)
	assert.Equal(t, http.StatusServiceUnavailable, body.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
