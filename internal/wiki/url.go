// Package wiki models Wikipedia articles: a validated article locator and a
// lazily-loaded page entity whose body is fetched on demand.
package wiki

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultHost is the canonical article host used when no allow-list is
// supplied.
const DefaultHost = "en.wikipedia.org"

// ErrNotAbsolute signals input that parsed but is not an absolute http(s)
// URL.
var ErrNotAbsolute = errors.New("not an absolute http(s) url")

// InvalidHostError reports an address whose host is not on the allow-list.
type InvalidHostError struct {
	Input string
}

func (e *InvalidHostError) Error() string {
	return fmt.Sprintf("%q is not a valid wikipedia url", e.Input)
}

// InvalidURLError reports input that could not be parsed as a URL. It keeps
// the offending input and the underlying parse failure for diagnostics.
type InvalidURLError struct {
	Input string
	Err   error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("%q failed to be parsed as a url: %v", e.Input, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// PageURL is a validated, canonical reference to one article. Immutable once
// constructed.
type PageURL struct {
	u *url.URL
}

// NewPageURL parses raw as an absolute URL and validates its host against the
// allow-list. When no hosts are given, DefaultHost is the only allowed host.
func NewPageURL(raw string, hosts ...string) (PageURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return PageURL{}, &InvalidURLError{Input: raw, Err: err}
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return PageURL{}, &InvalidURLError{Input: raw, Err: ErrNotAbsolute}
	}

	if host := u.Hostname(); host != "" && !hostAllowed(host, hosts) {
		return PageURL{}, &InvalidHostError{Input: raw}
	}

	return PageURL{u: u}, nil
}

// PageURLFromPath builds a PageURL from an article path such as
// "/wiki/Waffle" or "wiki/Waffle". A leading separator concatenates directly
// onto the canonical origin; otherwise exactly one separator is inserted.
// This is the entry point used when following extracted links, so every
// discovered link is re-validated against the allow-list.
func PageURLFromPath(path string, hosts ...string) (PageURL, error) {
	origin := "https://" + canonicalHost(hosts)

	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, `\`) {
		origin += "/"
	}

	return NewPageURL(origin+path, hosts...)
}

// String returns the canonical address for use by the fetch collaborator.
func (p PageURL) String() string {
	if p.u == nil {
		return ""
	}
	return p.u.String()
}

// URL returns a copy of the underlying parsed URL.
func (p PageURL) URL() *url.URL {
	if p.u == nil {
		return nil
	}
	clone := *p.u
	return &clone
}

// IsZero reports whether p was constructed through a validator.
func (p PageURL) IsZero() bool {
	return p.u == nil
}

func canonicalHost(hosts []string) string {
	if len(hosts) == 0 || hosts[0] == "" {
		return DefaultHost
	}
	return hosts[0]
}

func hostAllowed(host string, hosts []string) bool {
	if len(hosts) == 0 {
		return host == DefaultHost
	}
	for _, h := range hosts {
		if host == h {
			return true
		}
	}
	return false
}
