// Package billing talks to the OpenAI-compatible billing dashboard endpoints.
package billing

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/weavex/quotabar/internal/httpclient"
	"github.com/weavex/quotabar/internal/quota"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

const (
	usagePath        = "/dashboard/billing/usage"
	subscriptionPath = "/dashboard/billing/subscription"
)

// Endpoint names reported to observers.
const (
	EndpointUsage        = "usage"
	EndpointSubscription = "subscription"
)

// Endpoints lists every endpoint a Fetch touches, in request order.
var Endpoints = []string{EndpointUsage, EndpointSubscription}

// Observer is called once per endpoint when its request finishes, with a nil
// error on success. It may be called from multiple goroutines.
type Observer func(endpoint string, err error)

// Client fetches usage and subscription payloads.
type Client struct {
	baseURL  string
	http     *httpclient.Client
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. A trailing slash is ignored.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimSpace(u); u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout sets the per-request timeout in seconds.
func WithTimeout(seconds float64) Option {
	return func(c *Client) {
		c.http = httpclient.New(httpclient.WithTimeout(httpclient.TimeoutSeconds(seconds)))
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *httpclient.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithObserver registers a per-endpoint completion callback.
func WithObserver(fn Observer) Option {
	return func(c *Client) {
		c.observer = fn
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL, http: httpclient.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchUsage requests the accumulated usage in cents.
func (c *Client) FetchUsage(ctx context.Context, apiKey string) (quota.Usage, error) {
	var usage quota.Usage
	err := c.get(ctx, EndpointUsage, usagePath, apiKey, &usage)
	return usage, err
}

// FetchSubscription requests the hard limit and access expiration.
func (c *Client) FetchSubscription(ctx context.Context, apiKey string) (quota.Subscription, error) {
	var sub quota.Subscription
	err := c.get(ctx, EndpointSubscription, subscriptionPath, apiKey, &sub)
	return sub, err
}

// Fetch issues both requests concurrently and waits for both. The first
// failure cancels the other request; the returned error wraps
// quota.ErrNetwork.
func (c *Client) Fetch(ctx context.Context, apiKey string) (quota.Usage, quota.Subscription, error) {
	var (
		usage quota.Usage
		sub   quota.Subscription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usage, err = c.FetchUsage(gctx, apiKey)
		return err
	})
	g.Go(func() error {
		var err error
		sub, err = c.FetchSubscription(gctx, apiKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return quota.Usage{}, quota.Subscription{}, err
	}
	return usage, sub, nil
}

func (c *Client) get(ctx context.Context, endpoint, path, apiKey string, out any) (err error) {
	if c.observer != nil {
		defer func() { c.observer(endpoint, err) }()
	}

	resp, err := c.http.GetJSON(ctx, c.baseURL+path, out, httpclient.WithBearer(apiKey))
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %w", quota.ErrNetwork, endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s: HTTP %d, API key is invalid or expired", quota.ErrNetwork, endpoint, resp.StatusCode)
	case !resp.OK():
		return fmt.Errorf("%w: %s: HTTP %d (%s)", quota.ErrNetwork, endpoint, resp.StatusCode, resp.Summary())
	case resp.JSONErr != nil:
		return fmt.Errorf("%w: invalid %s response: %w", quota.ErrNetwork, endpoint, resp.JSONErr)
	case !bytes.HasPrefix(bytes.TrimSpace(resp.Body), []byte("{")):
		// null, arrays and scalars decode without error but carry no fields.
		return fmt.Errorf("%w: invalid %s response: not an object", quota.ErrNetwork, endpoint)
	}
	return nil
}
