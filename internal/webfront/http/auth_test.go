package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veriport/webfront/internal/webfront/cart"
	"github.com/veriport/webfront/internal/webfront/mail"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
)

// testBackend is a scripted stand-in for the backend API.
type testBackend struct {
	mux *http.ServeMux
	srv *httptest.Server
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{mux: http.NewServeMux()}
	b.srv = httptest.NewServer(b.mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *testBackend) handle(pattern string, status int, body string) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

// newTestRouter composes a full router over the stub backend, the way main
// wires it minus the listener.
func newTestRouter(t *testing.T, backendURL string) *Router {
	t.Helper()

	logger := slog.Default()
	carts := cart.NewStore(logger, time.Hour)
	mailer := mail.New(mail.Config{}, logger)

	r := NewRouter(
		session.Store{},
		backendapi.NewClient(backendURL),
		carts,
		mailer,
		"test",
		logger,
	)
	r.ApplyRoutes()
	return r
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleLogin(t *testing.T) {
	t.Run("success sets both token cookies and mirrors the user", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("POST /auth/login", http.StatusOK,
			`{"access_token":"acc-1","refresh_token":"ref-1","user":{"id":"u1","email":"a@b.test"}}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"a@b.test","password":"pw"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool            `json:"success"`
			User    json.RawMessage `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body.Success)
		require.JSONEq(t, `{"id":"u1","email":"a@b.test"}`, string(body.User))

		access := findCookie(t, rec, session.AccessCookie)
		require.NotNil(t, access)
		require.Equal(t, "acc-1", access.Value)
		require.Equal(t, session.AccessMaxAge, access.MaxAge)

		refresh := findCookie(t, rec, session.RefreshCookie)
		require.NotNil(t, refresh)
		require.Equal(t, "ref-1", refresh.Value)
		require.Equal(t, session.RefreshMaxAge, refresh.MaxAge)
	})

	t.Run("backend rejection is mirrored and sets no cookies", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("POST /auth/login", http.StatusUnauthorized,
			`{"message":"Invalid credentials","error":"invalid_credentials"}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"a@b.test","password":"nope"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t,
			`{"message":"Invalid credentials","error":"invalid_credentials"}`,
			rec.Body.String())
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("unreachable backend returns a friendly 500", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.srv.Close()

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"a@b.test","password":"pw"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "network_error", body["error"])
	})
}

func TestHandleRegister(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("POST /auth/register", http.StatusCreated,
		`{"access_token":"acc-1","refresh_token":"ref-1","user":{"id":"u1"}}`)

	router := newTestRouter(t, backend.srv.URL)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"new@b.test","password":"pw"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, findCookie(t, rec, session.AccessCookie))
	require.NotNil(t, findCookie(t, rec, session.RefreshCookie))
}

func TestHandleRefresh(t *testing.T) {
	t.Run("absent refresh cookie is a 401 without touching cookies", func(t *testing.T) {
		backend := newTestBackend(t)
		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"success":false,"message":"No refresh token"}`, rec.Body.String())
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("success rewrites the access cookie", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("POST /auth/refresh-token", http.StatusOK,
			`{"access_token":"acc-2","user":{"id":"u1"}}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "ref-1"})
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		access := findCookie(t, rec, session.AccessCookie)
		require.NotNil(t, access)
		require.Equal(t, "acc-2", access.Value)

		// The backend did not rotate the refresh token, so its cookie is
		// left untouched.
		require.Nil(t, findCookie(t, rec, session.RefreshCookie))
	})

	t.Run("rejected refresh token clears both cookies", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("POST /auth/refresh-token", http.StatusUnauthorized,
			`{"message":"Refresh token expired","error":"token_expired"}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "dead"})
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		access := findCookie(t, rec, session.AccessCookie)
		require.NotNil(t, access)
		require.Equal(t, -1, access.MaxAge)

		refresh := findCookie(t, rec, session.RefreshCookie)
		require.NotNil(t, refresh)
		require.Equal(t, -1, refresh.MaxAge)
	})
}

func TestHandleLogout(t *testing.T) {
	t.Run("clears cookies even when the backend call fails", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("POST /auth/logout", http.StatusInternalServerError,
			`{"message":"boom","error":"internal"}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: "acc-1"})
		req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "ref-1"})
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		for _, name := range []string{session.AccessCookie, session.RefreshCookie} {
			c := findCookie(t, rec, name)
			require.NotNil(t, c, name)
			require.Equal(t, -1, c.MaxAge, name)
		}
	})
}

func TestHandleMe(t *testing.T) {
	t.Run("expired token refreshes once and replays", func(t *testing.T) {
		backend := newTestBackend(t)

		var refreshes int
		backend.mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			refreshes++
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"acc-fresh"}`)
		})
		backend.mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.Header.Get("Authorization") != "Bearer acc-fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message":"Token expired","error":"token_expired"}`)
				return
			}
			fmt.Fprint(w, `{"user":{"id":"u1"},"role":"customer"}`)
		})

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: "acc-stale"})
		req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "ref-1"})
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, refreshes)

		// The mid-call refresh surfaced as a rewritten access cookie.
		access := findCookie(t, rec, session.AccessCookie)
		require.NotNil(t, access)
		require.Equal(t, "acc-fresh", access.Value)
	})

	t.Run("unrecoverable session clears cookies and points to login", func(t *testing.T) {
		backend := newTestBackend(t)
		backend.handle("GET /auth/me", http.StatusUnauthorized,
			`{"message":"Token expired","error":"token_expired"}`)
		backend.handle("POST /auth/refresh-token", http.StatusUnauthorized,
			`{"message":"Refresh token expired","error":"token_expired"}`)

		router := newTestRouter(t, backend.srv.URL)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: "acc-stale"})
		req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "ref-dead"})
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Success  bool   `json:"success"`
			Redirect string `json:"redirect"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, body.Success)
		require.Equal(t, "/login", body.Redirect)

		access := findCookie(t, rec, session.AccessCookie)
		require.NotNil(t, access)
		require.Equal(t, -1, access.MaxAge)
	})
}
