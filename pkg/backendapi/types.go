package backendapi

import "encoding/json"

// AuthResponse is the envelope the backend returns from auth endpoints:
// {access_token?, refresh_token?, user?, role}.
type AuthResponse struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
	Role         string          `json:"role,omitempty"`
	Message      string          `json:"message,omitempty"`
}

// TokenPair is a caller's access/refresh token pair as carried in cookies.
// Either field may be empty; the zero value means "no session".
type TokenPair struct {
	Access  string
	Refresh string
}

// HasAccess reports whether an access token is present. Presence does not
// imply validity; the token may be expired or revoked server-side.
func (p TokenPair) HasAccess() bool { return p.Access != "" }

// HasRefresh reports whether a refresh token is present.
func (p TokenPair) HasRefresh() bool { return p.Refresh != "" }

// RefreshListener is notified when a Session mints a fresh token pair, so
// the holder of the session state (the HTTP layer rewriting cookies) can
// follow along. Implementations must be fast; they run on the request path.
type RefreshListener interface {
	TokenRefreshed(pair TokenPair)
}

// RefreshListenerFunc adapts a function to the RefreshListener interface.
type RefreshListenerFunc func(pair TokenPair)

// TokenRefreshed implements RefreshListener.
func (f RefreshListenerFunc) TokenRefreshed(pair TokenPair) { f(pair) }

// errorBody is the backend's failure envelope: {message, error}.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
