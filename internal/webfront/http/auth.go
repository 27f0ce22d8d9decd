package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/veriport/webfront/internal/webfront/cart"
	"github.com/veriport/webfront/internal/webfront/mail"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/httpx"
	"github.com/veriport/webfront/pkg/idx"
	"github.com/veriport/webfront/pkg/slogx"
)

// AuthHandler relays the authentication endpoints to the backend and owns
// the token cookies. The backend is the only party that validates
// credentials; this layer just moves tokens between response bodies and
// cookies.
type AuthHandler struct {
	Cookies session.Store
	API     *backendapi.Client
	Carts   *cart.Store
	Mailer  *mail.Mailer
}

// HandleLogin relays POST /api/auth/login. On backend success both token
// cookies are set and the user object is mirrored back.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
			"error":   "bad_request",
		})
		return
	}

	resp, err := h.API.Login(r.Context(), payload)
	if err != nil {
		writeRelayError(w, r, err)
		return
	}

	h.Cookies.SetTokenPair(w, backendapi.TokenPair{
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	})

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    resp.User,
	})
}

// HandleRegister relays POST /api/auth/register. A welcome mail goes out
// best-effort; registration never fails because of it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
			"error":   "bad_request",
		})
		return
	}

	resp, err := h.API.Register(r.Context(), payload)
	if err != nil {
		writeRelayError(w, r, err)
		return
	}

	h.Cookies.SetTokenPair(w, backendapi.TokenPair{
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	})

	var reg struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &reg); err == nil && reg.Email != "" {
		h.Mailer.Welcome(r.Context(), reg.Email)
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    resp.User,
	})
}

// HandleLogout relays POST /api/auth/logout. Local cookies are cleared no
// matter what the backend says: logout is fail-open on the client session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	pair := h.Cookies.TokenPair(r)
	if err := h.API.Logout(r.Context(), pair.Access); err != nil {
		log.Warn("backend logout failed, clearing local session anyway", "error", err)
	}

	h.Cookies.ClearTokens(w)

	// The cart belongs to the browser session; drop it with the session.
	if rawID, ok := h.Cookies.CartID(r); ok {
		if id, err := idx.Parse(rawID); err == nil {
			h.Carts.Drop(id)
		}
		h.Cookies.Clear(w, session.CartCookie)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out",
	})
}

// HandleRefresh relays POST /api/auth/refresh-token using the refresh
// cookie. An upstream 401 means the refresh token itself is dead: both
// cookies are cleared.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.Cookies.Get(r, session.RefreshCookie)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "No refresh token",
		})
		return
	}

	resp, err := h.API.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		if apiErr, isAPI := backendapi.AsAPIError(err); isAPI && apiErr.Unauthorized() {
			h.Cookies.ClearTokens(w)
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"message": apiErr.Message,
				"error":   apiErr.Detail,
			})
			return
		}
		writeRelayError(w, r, err)
		return
	}

	h.Cookies.SetTokenPair(w, backendapi.TokenPair{
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	})

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    resp.User,
	})
}

// HandleMe relays GET /api/auth/me through the refresh interceptor. The
// response is the authoritative user info; edge-decoded claims are only a
// routing hint.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess := boundSession(w, r, h.Cookies, h.API)

	me, err := sess.Me(r.Context())
	if err != nil {
		if isSessionExpired(err) {
			writeSessionExpired(w, h.Cookies)
			return
		}
		writeRelayError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    me.User,
		"role":    me.Role,
	})
}
