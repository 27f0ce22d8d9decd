package webfront_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veriport/webfront/internal/webfront/cart"
	httpapi "github.com/veriport/webfront/internal/webfront/http"
	"github.com/veriport/webfront/internal/webfront/mail"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
)

// backendStub is a scripted backend API serving the endpoints the front end
// relays to.
type backendStub struct {
	mux *http.ServeMux
	srv *httptest.Server
}

func newBackendStub(t *testing.T) *backendStub {
	t.Helper()

	b := &backendStub{mux: http.NewServeMux()}

	b.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK,
			`{"access_token":"acc-1","refresh_token":"ref-1","user":{"id":"u1","email":"user@example.com"}}`)
	})
	b.mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"Logged out"}`)
	})
	b.mux.HandleFunc("GET /services", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK,
			`[{"id":"svc-1","title":"County Criminal Search","price":2500}]`)
	})
	b.mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc-1" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"Token expired","error":"token_expired"}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"id":"ord-1","orderNumber":"ORD-42"}`)
	})
	b.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"ok"}`)
	})

	b.srv = httptest.NewServer(b.mux)
	t.Cleanup(b.srv.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

// setupFront composes the full front-end router over the stub backend and
// serves it for real, so cookies flow through an actual client jar.
func setupFront(t *testing.T, backendURL string) (*httptest.Server, *http.Client) {
	t.Helper()

	logger := slog.Default()
	router := httpapi.NewRouter(
		session.Store{},
		backendapi.NewClient(backendURL),
		cart.NewStore(logger, time.Hour),
		mail.New(mail.Config{}, logger),
		"e2e",
		logger,
	)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func doJSON(t *testing.T, client *http.Client, method, url, body string) (*http.Response, string) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(raw)
}

func cookieValue(client *http.Client, rawURL, name string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
