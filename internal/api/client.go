// Package api is the HTTP client for the Ajor backend. One method per
// consumed endpoint; every authenticated request carries the current
// bearer token read fresh from the token source, since logout can
// invalidate it at any moment.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TokenSource supplies the current bearer token; an empty string means
// no session.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource wrapping a fixed token string.
type StaticToken string

// Token returns the wrapped token.
func (t StaticToken) Token() string { return string(t) }

// Client talks to the Ajor backend. It handles Bearer authentication,
// JSON (de)serialization, bounded request timeouts, and retry with
// backoff on HTTP 429.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a backend client. baseURL is the API root
// (e.g. https://api.ajor.example); timeout bounds each request.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 3,
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// WebSocketURL returns the backend's push channel address, derived from
// the base URL by swapping the http scheme for ws.
func (c *Client) WebSocketURL() string {
	base := c.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// errorBody is the backend's JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do builds the request, attaches auth, and handles rate limiting and
// JSON (de)serialization.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = &Error{StatusCode: resp.StatusCode, Message: "rate limited"}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var eb errorBody
			if json.Unmarshal(respBody, &eb) == nil && eb.Error != "" {
				return &Error{StatusCode: resp.StatusCode, Message: eb.Error}
			}
			return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}

		if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration, falling back to exponential backoff when the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
