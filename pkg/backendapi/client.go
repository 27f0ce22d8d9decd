package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Default per-call ceilings. JSON calls are quick round trips; document
// uploads for background checks can be large.
const (
	DefaultJSONTimeout   = 15 * time.Second
	DefaultUploadTimeout = 60 * time.Second
)

// Client talks to the background-check backend API. It provides the
// unauthenticated operations and creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// UploadClient is used for multipart document uploads, which need a
	// longer deadline than regular JSON calls.
	UploadClient *http.Client
}

// NewClient creates a backend API client with default timeouts.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		HTTPClient:   &http.Client{Timeout: DefaultJSONTimeout},
		UploadClient: &http.Client{Timeout: DefaultUploadTimeout},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// Login relays the raw login payload to POST /auth/login.
func (c *Client) Login(ctx context.Context, payload []byte) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register relays the raw registration payload to POST /auth/register.
func (c *Client) Register(ctx context.Context, payload []byte) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", payload, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a new access token via
// POST /auth/refresh-token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh-token", payload, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the backend that the session ends. Callers clear local
// cookies regardless of the outcome; logout is fail-open client-side.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/auth/logout"), nil)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{URL: c.url("/auth/logout"), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(resp)
	}
	return nil
}

// Services fetches the public service catalog.
func (c *Client) Services(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/services")
}

// ServiceByID fetches a single catalog entry.
func (c *Client) ServiceByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.getRaw(ctx, "/services/"+id)
}

// Packages fetches the public package catalog.
func (c *Client) Packages(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/packages")
}

// Ping probes the backend for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/health"), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{URL: c.url("/health"), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return parseAPIError(resp)
	}
	return nil
}

// getRaw performs an unauthenticated GET and returns the raw JSON body.
func (c *Client) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// doJSON performs an unauthenticated JSON request and decodes the response
// into out when the status matches expectStatus. Other statuses become
// typed *APIError values mirroring the upstream body.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	payload []byte,
	out any,
	expectStatus int,
) error {
	var body *bytes.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{URL: c.url(path), Err: err}
	}

	return decodeJSON(resp, out, expectStatus)
}
