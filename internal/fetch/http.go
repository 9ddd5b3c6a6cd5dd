// Package fetch provides transport implementations of the wiki.Fetcher
// contract.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// DefaultUserAgent identifies the crawler to the remote site.
const DefaultUserAgent = "wikigraph/1.0"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Config holds transport settings shared by the fetch clients.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// RateLimit is the delay between requests; only the colly client
	// enforces it.
	RateLimit time.Duration
	// Hosts restricts which domains the colly client will visit.
	Hosts []string
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client fetches pages with a plain net/http client.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates an HTTP fetch client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
	}
}

// Fetch performs a single blocking GET and returns the response body as
// text. Non-2xx responses become a StatusError.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	return string(body), nil
}
