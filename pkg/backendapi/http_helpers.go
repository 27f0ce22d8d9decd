package backendapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// decodeJSON reads the response body once, turning unexpected statuses into
// *APIError and decoding successful bodies into target. target may be nil
// when the caller only cares about the status.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return apiErrorFromBody(resp.StatusCode, bodyBytes)
	}

	if target == nil || len(bodyBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseAPIError consumes the response body and builds an *APIError.
func parseAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	return apiErrorFromBody(resp.StatusCode, bodyBytes)
}

// apiErrorFromBody parses the backend's {message, error} failure envelope.
// Unparseable bodies fall back to the bare status code.
func apiErrorFromBody(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Message
		apiErr.Detail = eb.Error
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	return apiErr
}
