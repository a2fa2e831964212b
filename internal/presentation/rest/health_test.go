package rest_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/presentation/rest"
)

func TestHealthHandler(t *testing.T) {
	serve := func(checks map[string]rest.Pinger, path string) *httptest.ResponseRecorder {
		mux := http.NewServeMux()
		rest.NewHealthHandler("recalc-service", checks, nil).RegisterRoutes(mux)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("liveness", func(t *testing.T) {
		rec := serve(nil, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "recalc-service")
	})

	t.Run("ready", func(t *testing.T) {
		rec := serve(map[string]rest.Pinger{"postgres": mockPinger{}}, "/readyz")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("not ready", func(t *testing.T) {
		rec := serve(map[string]rest.Pinger{
			"postgres": mockPinger{},
			"redis":    mockPinger{err: errors.New("dial tcp: refused")},
		}, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"redis":"unavailable"`)
		assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}
