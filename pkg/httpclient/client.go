// Package httpclient is the HTTP client third-wheel uses to talk to GitHub:
// tag listings for version resolution and release assets for downloads.
package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/pkg/errors"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "third-wheel/1.0"

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = fmt.Errorf("unexpected status code")

// Client performs GET requests with a shared timeout, user agent and
// optional bearer token.
type Client struct {
	client    *http.Client
	userAgent string
	token     string
}

// Options configure a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Token is sent as a bearer token when set (GITHUB_TOKEN).
	Token string
}

// New creates a new Client.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	return &Client{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent: opts.UserAgent,
		token:     opts.Token,
	}
}

// Get issues a GET request. Only 2xx responses are returned; the caller
// closes the body. Any other status closes the body and returns an error
// wrapping ErrUnexpectedStatus.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.Debug("GET", logger.Fields{"url": rawURL})
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", rawURL)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %d: %w", rawURL, resp.StatusCode, ErrUnexpectedStatus)
	}
	return resp, nil
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.client.Timeout
}
