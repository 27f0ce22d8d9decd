// Package session reads and writes the HTTP cookies that carry the caller's
// session. There is no server-side session store: the cookie pair is the
// session. Presence of a structurally valid access token never implies
// validity; it may be expired or revoked server-side.
package session

import (
	"net/http"

	"github.com/veriport/webfront/pkg/backendapi"
)

// Cookie names shared with the browser application.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	// CartCookie identifies the caller's in-memory cart. Session-scoped.
	CartCookie = "cart_session"
)

// Cookie lifetimes. The access token is short-lived; the refresh token
// exists solely to mint new access tokens.
const (
	AccessMaxAge  = 18000  // 5 hours, in seconds
	RefreshMaxAge = 604800 // 7 days, in seconds
)

// Store issues and reads session cookies. The zero value is usable in
// tests; production sets Secure in prod environments.
type Store struct {
	// Secure controls the cookie Secure flag (true behind HTTPS).
	Secure bool
}

// Get returns the named cookie value. Absent cookies are a normal state,
// reported via the second return value. Never fails.
func (s Store) Get(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// TokenPair reads both token cookies into a pair. Either side may be empty.
func (s Store) TokenPair(r *http.Request) backendapi.TokenPair {
	access, _ := s.Get(r, AccessCookie)
	refresh, _ := s.Get(r, RefreshCookie)
	return backendapi.TokenPair{Access: access, Refresh: refresh}
}

// SetAccess writes the access token cookie.
func (s Store) SetAccess(w http.ResponseWriter, token string) {
	s.set(w, AccessCookie, token, AccessMaxAge)
}

// SetRefresh writes the refresh token cookie.
func (s Store) SetRefresh(w http.ResponseWriter, token string) {
	s.set(w, RefreshCookie, token, RefreshMaxAge)
}

// SetTokenPair writes whichever tokens of the pair are present. The refresh
// cookie is only rewritten when the backend rotated it.
func (s Store) SetTokenPair(w http.ResponseWriter, pair backendapi.TokenPair) {
	if pair.Access != "" {
		s.SetAccess(w, pair.Access)
	}
	if pair.Refresh != "" {
		s.SetRefresh(w, pair.Refresh)
	}
}

// ClearTokens removes both token cookies.
func (s Store) ClearTokens(w http.ResponseWriter) {
	s.Clear(w, AccessCookie)
	s.Clear(w, RefreshCookie)
}

// CartID returns the caller's cart session ID, if any.
func (s Store) CartID(r *http.Request) (string, bool) {
	return s.Get(r, CartCookie)
}

// SetCartID issues the cart session cookie. No MaxAge: the cart lives for
// the browser session only.
func (s Store) SetCartID(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookie,
		Value:    id,
		Path:     "/",
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// set writes a token cookie with the shared attributes. The token cookies
// are deliberately not httpOnly: the browser application reads them to know
// whether a session exists.
func (s Store) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear removes the named cookie.
func (s Store) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
