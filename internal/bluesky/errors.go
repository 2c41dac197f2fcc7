// ABOUTME: XRPC error responses from the Bluesky PDS
// ABOUTME: Classifies which failures are worth retrying
package bluesky

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx XRPC response
type APIError struct {
	StatusCode int
	Name       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("bluesky API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("bluesky API error (status %d): %s: %s", e.StatusCode, e.Name, e.Message)
}

// Retryable reports whether the request may succeed if sent again
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Expired reports whether the access token needs a fresh login
func (e *APIError) Expired() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Name == "ExpiredToken" || e.Name == "InvalidToken"
}

// NotFound reports whether the requested record does not exist
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Name == "RecordNotFound"
}

func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}
	if json.Unmarshal(body, apiErr) != nil || (apiErr.Name == "" && apiErr.Message == "") {
		apiErr.Message = string(body)
	}
	return apiErr
}
