package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// BackendClient calls the bookstore REST API.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) HTTPStatus() int {
	return e.Status
}

func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

func (b *BackendClient) Do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	return b.client.Do(req)
}

// doJSON sends in (when non-nil) as JSON and decodes the answer into out
// (when non-nil). token is sent as a Bearer credential when set.
func (b *BackendClient) doJSON(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
		headers.Set("Content-Type", "application/json")
	}

	resp, err := b.Do(ctx, method, path, query, headers, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage prefers the backend's "message", then "error", then any
// other string field, then a status-based default.
func errorMessage(status int, raw []byte) string {
	var body map[string]any
	if json.Unmarshal(raw, &body) == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
		// field validation errors come back as {"field": "reason"}
		keys := make([]string, 0, len(body))
		for k := range body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := body[k].(string); ok && s != "" {
				return s
			}
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return "Please sign in to continue"
	case http.StatusForbidden:
		return "You do not have permission to do that"
	case http.StatusNotFound:
		return "The requested resource was not found"
	}
	if status >= 500 {
		return "The bookstore service is unavailable"
	}
	return "The request could not be completed"
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", fmt.Sprint(page-1))
	if size > 0 {
		q.Set("size", fmt.Sprint(size))
	}
	return q
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
