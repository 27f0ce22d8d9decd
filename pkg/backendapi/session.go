package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Session binds a Client to one caller's token pair for the duration of an
// incoming request. Authenticated calls carry the access token as a bearer
// credential; a 401 triggers at most one refresh-and-replay per logical
// call. Concurrent 401s within the same Session coalesce into a single
// refresh request.
type Session struct {
	client   *Client
	listener RefreshListener

	mu   sync.Mutex
	pair TokenPair
}

// NewSession creates a Session over an existing token pair. listener may be
// nil when nobody needs to observe refreshes.
func NewSession(client *Client, pair TokenPair, listener RefreshListener) *Session {
	return &Session{
		client:   client,
		listener: listener,
		pair:     pair,
	}
}

// Pair returns a snapshot of the current token pair.
func (s *Session) Pair() TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair
}

// Me fetches the authoritative user info from GET /auth/me. This, not the
// decoded token claims, is the canonical role check.
func (s *Session) Me(ctx context.Context) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.doAuth(ctx, call{method: http.MethodGet, path: "/auth/me"}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get performs an authenticated GET and returns the raw JSON body.
func (s *Session) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.doAuth(ctx, call{method: http.MethodGet, path: path}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Post performs an authenticated POST with a JSON payload and returns the
// raw JSON body. expectStatus is the success status the backend documents
// for the endpoint (200 or 201).
func (s *Session) Post(ctx context.Context, path string, payload []byte, expectStatus int) (json.RawMessage, error) {
	var out json.RawMessage
	c := call{
		method:      http.MethodPost,
		path:        path,
		payload:     payload,
		contentType: "application/json",
	}
	if err := s.doAuth(ctx, c, &out, expectStatus); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload performs an authenticated POST of a pre-built multipart body using
// the long-deadline upload client.
func (s *Session) Upload(ctx context.Context, path, contentType string, payload []byte) (json.RawMessage, error) {
	var out json.RawMessage
	c := call{
		method:      http.MethodPost,
		path:        path,
		payload:     payload,
		contentType: contentType,
		upload:      true,
	}
	if err := s.doAuth(ctx, c, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// call describes one logical outbound request. The payload is held as bytes
// so the call can be replayed after a token refresh.
type call struct {
	method      string
	path        string
	payload     []byte
	contentType string
	upload      bool
}

// doAuth executes the call, refreshing and replaying exactly once on a 401.
// The at-most-one-retry invariant is structural: the replay result is
// decoded directly, there is no retry loop and no shared mutable retry flag.
func (s *Session) doAuth(ctx context.Context, c call, out any, expectStatus int) error {
	token := s.Pair().Access

	resp, err := s.send(ctx, c, token)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return decodeJSON(resp, out, expectStatus)
	}

	// Token rejected. Drain the first response, then refresh.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if err := s.refreshAfter401(ctx, token); err != nil {
		return err
	}

	// Replay once with the fresh token. A second 401 surfaces to the caller
	// as a final *APIError, never a second refresh.
	resp, err = s.send(ctx, c, s.Pair().Access)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, expectStatus)
}

// send builds and executes the HTTP request for a call.
func (s *Session) send(ctx context.Context, c call, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, c.method, s.client.url(c.path), bytes.NewReader(c.payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}

	httpClient := s.client.HTTPClient
	if c.upload {
		httpClient = s.client.UploadClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: s.client.url(c.path), Err: err}
	}
	return resp, nil
}

// refreshAfter401 refreshes the token pair after a call saw a 401 while
// using usedToken. If another call on this Session already refreshed in the
// meantime, the stored access token differs from usedToken and the refresh
// is skipped (coalescing). Any refresh failure collapses to
// ErrSessionExpired.
func (s *Session) refreshAfter401(ctx context.Context, usedToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pair.Access != usedToken {
		return nil // a concurrent call already refreshed
	}

	if s.pair.Refresh == "" {
		return ErrSessionExpired
	}

	resp, err := s.client.RefreshToken(ctx, s.pair.Refresh)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if resp.AccessToken == "" {
		return ErrSessionExpired
	}

	s.pair.Access = resp.AccessToken
	if resp.RefreshToken != "" {
		s.pair.Refresh = resp.RefreshToken
	}

	if s.listener != nil {
		s.listener.TokenRefreshed(s.pair)
	}

	return nil
}
