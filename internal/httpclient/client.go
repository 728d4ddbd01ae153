// Package httpclient is a small JSON-over-HTTP client with bounded response
// bodies.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout applies when no positive timeout is configured.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBody caps how much of a response body is read.
	DefaultMaxBody int64 = 1 << 20
	// DefaultUserAgent is sent unless overridden.
	DefaultUserAgent = "quotabar"
)

// ErrBodyTooLarge is reported in Response.JSONErr when the body exceeded the
// configured limit and was not decoded.
var ErrBodyTooLarge = errors.New("response body too large")

type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
}

type Option func(*Client)

// WithTimeout bounds each request. Non-positive values select DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			d = DefaultTimeout
		}
		c.http.Timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBody sets the largest body, in bytes, that is read in full.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// TimeoutSeconds converts a config timeout in seconds, mapping non-positive
// values to DefaultTimeout.
func TimeoutSeconds(s float64) time.Duration {
	if s <= 0 {
		return DefaultTimeout
	}
	return time.Duration(s * float64(time.Second))
}

func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Do sends a request and reads at most the configured body limit. A non-nil
// error means the request never produced a response (DNS, connect, timeout,
// cancellation); HTTP error statuses are reported in StatusCode.
func (c *Client) Do(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	out := &Response{StatusCode: resp.StatusCode, Body: data}
	if int64(len(data)) > c.maxBody {
		out.Body = data[:c.maxBody]
		out.Truncated = true
	}
	return out, nil
}

// GetJSON sends a GET with an Accept: application/json header. Successful
// responses are decoded into out; decode failures land in Response.JSONErr
// rather than the returned error.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any, opts ...RequestOption) (*Response, error) {
	opts = append([]RequestOption{WithHeader("Accept", "application/json")}, opts...)
	resp, err := c.Do(ctx, http.MethodGet, rawURL, nil, opts...)
	if err != nil {
		return nil, err
	}
	if out == nil || !resp.OK() {
		return resp, nil
	}
	if resp.Truncated {
		resp.JSONErr = fmt.Errorf("%w (over %d bytes)", ErrBodyTooLarge, c.maxBody)
		return resp, nil
	}
	resp.JSONErr = json.Unmarshal(resp.Body, out)
	return resp, nil
}
