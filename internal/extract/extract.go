// Package extract derives article titles and outbound article links from raw
// page markup. The extraction strategy is hidden behind the Extractor
// interface so the pattern-based implementation can be swapped for a
// structural parser without touching callers.
package extract

import "errors"

// DefaultSiteName is the trailing site-name suffix expected in a page's
// <title> element, e.g. "Waffle - Wikipedia".
const DefaultSiteName = "Wikipedia"

// archiveMarker identifies citation links to archived snapshots rather than
// articles. Candidates whose link text contains it are discarded.
const archiveMarker = "Wayback Machine"

// ErrNoTitle is returned when a page body contains no recognizable title.
var ErrNoTitle = errors.New("no title found in page body")

// Link is one outbound article link candidate: the article path as it appears
// in the href attribute, and the human-readable link text.
type Link struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Extractor extracts a title and outbound article links from a page body.
type Extractor interface {
	// Title returns the article title derived from the body, or ErrNoTitle.
	Title(body string) (string, error)
	// Links returns the outbound article link candidates found in the body.
	// Archive-reference links are filtered out; no other validation happens
	// here.
	Links(body string) []Link
}
