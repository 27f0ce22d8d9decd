package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogRelay(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("GET /services", http.StatusOK, `[{"id":"svc-1","title":"County Criminal Search"}]`)
	backend.handle("GET /services/svc-1", http.StatusOK, `{"id":"svc-1","title":"County Criminal Search"}`)
	backend.handle("GET /packages", http.StatusOK, `[{"id":"pkg-1"}]`)

	router := newTestRouter(t, backend.srv.URL)

	for _, target := range []string{"/api/services", "/api/services/svc-1", "/api/packages"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code, target)

		var body struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), target)
		require.True(t, body.Success, target)
		require.NotEmpty(t, body.Data, target)
	}
}

func TestSystemEndpoints(t *testing.T) {
	t.Run("livez answers regardless of the backend", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.srv.Close()

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reflects backend reachability", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("GET /health", http.StatusOK, `{"status":"ok"}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		backend.srv.Close()

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "unreachable", body["backend"])
	})
}

func TestPageNavigation(t *testing.T) {
	backend := newTestBackend(t)
	router := newTestRouter(t, backend.srv.URL)

	t.Run("public page renders the app shell", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `id="app"`)
	})

	t.Run("protected page without a token redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("unknown api paths are a JSON 404, not the shell", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "not_found")
	})

	t.Run("request IDs are issued on every response", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestRateLimiting(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("POST /auth/login", http.StatusUnauthorized,
		`{"message":"Invalid credentials","error":"invalid_credentials"}`)

	router := newTestRouter(t, backend.srv.URL)

	// Burn through the strict burst for one IP and email.
	var last *httptest.ResponseRecorder
	for i := 0; i < 10; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.7:4444"
		router.ServeHTTP(last, req)
		if last.Code == http.StatusTooManyRequests {
			break
		}
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	require.Equal(t, "rate_limit_exceeded", body["error"])

	// A different client is unaffected.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
