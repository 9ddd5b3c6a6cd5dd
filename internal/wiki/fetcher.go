package wiki

import "context"

// Fetcher is the transport collaborator: a synchronous text-returning call
// keyed by a fully-qualified address. Implementations decide TLS, redirects
// and headers; callers see either the raw body or the transport failure,
// never a retry.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}
