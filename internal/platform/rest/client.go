// Package rest wraps http.Client with base URL handling shared by the upstream adapters.
package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoBaseURL is returned by NewRequest when the client was built without a base URL.
var ErrNoBaseURL = errors.New("base url not configured")

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration, client *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if client == nil {
		client = &http.Client{Timeout: TimeoutOrDefault(timeout)}
	} else if timeout > 0 {
		// shallow copy, the caller's client may be shared
		copied := *client
		copied.Timeout = timeout
		client = &copied
	}
	return &Client{baseURL: trimmed, client: client}
}

func (c *Client) BaseURL() string { return c.baseURL }

// NewRequest resolves endpoint against the base URL. An empty endpoint targets the base URL itself.
// The endpoint must already be path-escaped. query is merged into any query the base URL carries.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, query url.Values, body io.Reader) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, ErrNoBaseURL
	}
	target, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if trimmed := strings.TrimLeft(endpoint, "/"); trimmed != "" {
		target = target.JoinPath(trimmed)
	}
	if len(query) > 0 {
		values := target.Query()
		for key, vals := range query {
			for _, v := range vals {
				values.Add(key, v)
			}
		}
		target.RawQuery = values.Encode()
	}
	return http.NewRequestWithContext(ctx, method, target.String(), body)
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// ErrorBody reads at most 2 KiB of a failed response for logging.
func ErrorBody(res *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
	return strings.TrimSpace(string(body))
}

func TimeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
