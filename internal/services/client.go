// JSON API client shared by the Spotify and Genius services
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/trackset/internal/shared"
)

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error: status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s API error: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Unwrap maps the status to a shared sentinel so callers can use [errors.Is].
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return shared.ErrNotAuthenticated
	}
	return shared.ErrAPIRequest
}

// APIClient performs GET requests against a JSON API and decodes the response.
type APIClient struct {
	service    string
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

// NewAPIClient creates a new API client for the given base URL.
func NewAPIClient(service, baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &APIClient{
		service:    service,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
		headers:    http.Header{},
	}
}

// SetHeader adds a header sent with every request.
func (a *APIClient) SetHeader(key, value string) {
	a.headers.Set(key, value)
}

// resolve turns an endpoint into a full URL. Absolute URLs (pagination links) are used as-is.
func (a *APIClient) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return a.baseURL + endpoint
}

// GetJSON performs a GET request to endpoint and decodes the JSON body into result.
func (a *APIClient) GetJSON(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.resolve(endpoint), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key := range a.headers {
		req.Header.Set(key, a.headers.Get(key))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Service: a.service, StatusCode: resp.StatusCode, Body: errorMessage(body)}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// errorMessage extracts a message from the error envelopes used by Spotify and Genius.
func errorMessage(body []byte) string {
	var envelope struct {
		Error            json.RawMessage `json:"error"`
		ErrorDescription string          `json:"error_description"`
		Meta             struct {
			Message string `json:"message"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if envelope.Meta.Message != "" {
		return envelope.Meta.Message
	}
	if envelope.ErrorDescription != "" {
		return envelope.ErrorDescription
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}

	var plain string
	if err := json.Unmarshal(envelope.Error, &plain); err == nil {
		return plain
	}
	return ""
}
