package http

import (
	"errors"
	"net/http"

	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/httpx"
	"github.com/veriport/webfront/pkg/slogx"
)

// maxBodyBytes caps inbound request bodies on relay endpoints.
const maxBodyBytes = 1 << 20 // 1 MiB

// writeRelayError mirrors a backend failure to the browser: upstream status
// and {message, error} when we have them, 500 otherwise. Auth failures are
// handled before this point and never reach the user as raw errors.
func writeRelayError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	if apiErr, ok := backendapi.AsAPIError(err); ok {
		log.Warn("backend call failed", "status", apiErr.Status, "message", apiErr.Message)
		httpx.WriteJSON(w, apiErr.Status, map[string]string{
			"message": apiErr.Message,
			"error":   apiErr.Detail,
		})
		return
	}

	var netErr *backendapi.NetworkError
	if errors.As(err, &netErr) {
		log.Error("backend unreachable", "error", netErr)
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Unable to reach the service. Please try again.",
			"error":   "network_error",
		})
		return
	}

	log.Error("relay failed", "error", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"message": "Something went wrong",
		"error":   "internal_error",
	})
}

// isSessionExpired reports whether a relay failure means the caller's
// session is beyond recovery (refresh missing, rejected, or unusable).
func isSessionExpired(err error) bool {
	return errors.Is(err, backendapi.ErrSessionExpired)
}

// writeSessionExpired tears the session down: both token cookies are
// cleared and the browser is told to navigate back to the login page.
func writeSessionExpired(w http.ResponseWriter, cookies session.Store) {
	cookies.ClearTokens(w)
	httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{
		"success":  false,
		"message":  "Session expired",
		"redirect": "/login",
	})
}

// boundSession creates a backend Session over the caller's cookie pair. A
// mid-call token refresh rewrites the cookies on the pending response via
// the refresh listener.
func boundSession(
	w http.ResponseWriter,
	r *http.Request,
	cookies session.Store,
	api *backendapi.Client,
) *backendapi.Session {
	pair := cookies.TokenPair(r)
	return backendapi.NewSession(api, pair, backendapi.RefreshListenerFunc(func(p backendapi.TokenPair) {
		cookies.SetTokenPair(w, p)
	}))
}
