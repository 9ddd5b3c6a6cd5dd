package fetch

import (
	"context"
	"errors"

	colly "github.com/gocolly/colly/v2"
)

// ErrNoResponse is returned when a colly visit produces neither a response
// nor an error, e.g. when the URL is filtered by the domain allow-list.
var ErrNoResponse = errors.New("no response received")

// CollyClient fetches pages through a colly collector, enforcing a domain
// allow-list and a per-request delay. Use it for polite, deeper crawls; the
// plain Client is the lighter default.
type CollyClient struct {
	cfg Config
}

// NewCollyClient creates a colly-backed fetch client.
func NewCollyClient(cfg Config) *CollyClient {
	return &CollyClient{cfg: cfg.withDefaults()}
}

// Fetch visits the URL with a fresh collector and returns the raw body. The
// call blocks until the visit completes or fails.
func (c *CollyClient) Fetch(ctx context.Context, url string) (string, error) {
	opts := []colly.CollectorOption{
		colly.UserAgent(c.cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	}
	if len(c.cfg.Hosts) > 0 {
		opts = append(opts, colly.AllowedDomains(c.cfg.Hosts...))
	}

	collector := colly.NewCollector(opts...)
	collector.SetRequestTimeout(c.cfg.Timeout)

	if c.cfg.RateLimit > 0 {
		if err := collector.Limit(&colly.LimitRule{
			DomainGlob: "*",
			Delay:      c.cfg.RateLimit,
		}); err != nil {
			return "", err
		}
	}

	var body string
	var received bool
	var fetchErr error

	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		received = true
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(url); err != nil {
		return "", err
	}
	collector.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}
	if !received {
		return "", ErrNoResponse
	}

	return body, nil
}
