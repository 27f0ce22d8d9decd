package http

import (
	"net/http"
	"time"

	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/httpx"
)

// LivezHandler reports process liveness. It answers as long as the process
// can serve HTTP at all.
func LivezHandler(startTime time.Time, buildVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"version": buildVersion,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	})
}

// ReadyzHandler reports readiness: the process is up and the backend API
// answers its health probe.
func ReadyzHandler(startTime time.Time, buildVersion string, api *backendapi.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		backend := "ok"

		if err := api.Ping(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			backend = "unreachable"
		}

		httpx.WriteJSON(w, status, map[string]any{
			"status":  http.StatusText(status),
			"backend": backend,
			"version": buildVersion,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	})
}
