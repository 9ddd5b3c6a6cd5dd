package wiki

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/wikigraph/internal/extract"
)

// ErrTitleNotFound is returned when a loaded body contains no recognizable
// title. It is an ordinary recoverable error so a traversal over many pages
// can skip a single malformed page.
var ErrTitleNotFound = errors.New("title not found")

// ErrNoFetcher is returned when a body-requiring operation runs on a page
// that was built without a fetch collaborator.
var ErrNoFetcher = errors.New("page has no fetcher")

// State describes a page's load lifecycle.
type State int

const (
	// StateUnloaded means neither body nor title is present.
	StateUnloaded State = iota
	// StateBodyLoaded means the body is present but no title was derived yet.
	StateBodyLoaded
	// StateTitleLoaded means the title is present; the body may have been
	// unloaded to reclaim memory.
	StateTitleLoaded
)

func (s State) String() string {
	switch s {
	case StateBodyLoaded:
		return "body-loaded"
	case StateTitleLoaded:
		return "title-loaded"
	default:
		return "unloaded"
	}
}

// Page is the lazily-loaded in-memory representation of one article. Each
// page exclusively owns its optional body text; every discovered link
// produces a brand-new page even when it denotes the same article as an
// existing node.
type Page struct {
	url       PageURL
	fetcher   Fetcher
	extractor extract.Extractor
	hosts     []string

	title    string
	hasTitle bool
	body     string
	hasBody  bool

	skipped int
}

// PageOption configures a page at construction time.
type PageOption func(*Page)

// WithFetcher sets the transport collaborator.
func WithFetcher(f Fetcher) PageOption {
	return func(p *Page) { p.fetcher = f }
}

// WithExtractor sets the extraction collaborator.
func WithExtractor(e extract.Extractor) PageOption {
	return func(p *Page) { p.extractor = e }
}

// WithHosts sets the allow-list used when validating discovered links.
func WithHosts(hosts ...string) PageOption {
	return func(p *Page) { p.hosts = hosts }
}

// WithTitle pre-populates the title, as when a page is discovered through a
// link whose text already names the article.
func WithTitle(title string) PageOption {
	return func(p *Page) {
		p.title = title
		p.hasTitle = true
	}
}

// NewPage creates an unloaded page for the given locator.
func NewPage(u PageURL, opts ...PageOption) *Page {
	p := &Page{url: u}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = extract.NewPatternExtractor("")
	}
	return p
}

// NewPageLoadTitle creates a page and immediately resolves its title,
// fetching the body.
func NewPageLoadTitle(ctx context.Context, u PageURL, opts ...PageOption) (*Page, error) {
	p := NewPage(u, opts...)
	if err := p.LoadTitle(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// URL returns the page's locator.
func (p *Page) URL() PageURL {
	return p.url
}

// State returns the page's lifecycle state.
func (p *Page) State() State {
	switch {
	case p.hasTitle:
		return StateTitleLoaded
	case p.hasBody:
		return StateBodyLoaded
	default:
		return StateUnloaded
	}
}

// BodyLoaded reports whether the body is currently held in memory.
func (p *Page) BodyLoaded() bool {
	return p.hasBody
}

// LoadBody fetches and stores the raw page body. Idempotent: when the body is
// already present this is a no-op with zero fetches. Transport failures are
// propagated unchanged, never retried.
func (p *Page) LoadBody(ctx context.Context) error {
	if p.hasBody {
		return nil
	}
	if p.fetcher == nil {
		return fmt.Errorf("load body %s: %w", p.url, ErrNoFetcher)
	}

	body, err := p.fetcher.Fetch(ctx, p.url.String())
	if err != nil {
		return err
	}

	p.body = body
	p.hasBody = true
	return nil
}

// UnloadBody discards the body to reclaim memory. The title is retained; a
// later body-requiring operation triggers a fresh fetch.
func (p *Page) UnloadBody() {
	p.body = ""
	p.hasBody = false
}

// LoadTitle derives and stores the title, loading the body first when
// necessary. Idempotent. A body without a recognizable title yields
// ErrTitleNotFound.
func (p *Page) LoadTitle(ctx context.Context) error {
	if p.hasTitle {
		return nil
	}
	if err := p.LoadBody(ctx); err != nil {
		return err
	}
	return p.titleFromBody()
}

// TryLoadTitle derives the title only when the body is already loaded. An
// absent body is a no-op, not an error.
func (p *Page) TryLoadTitle() error {
	if p.hasTitle || !p.hasBody {
		return nil
	}
	return p.titleFromBody()
}

func (p *Page) titleFromBody() error {
	title, err := p.extractor.Title(p.body)
	if err != nil {
		return fmt.Errorf("%s: %w", p.url, ErrTitleNotFound)
	}
	p.title = title
	p.hasTitle = true
	return nil
}

// Title returns the page title, loading the body and deriving the title as
// needed.
func (p *Page) Title(ctx context.Context) (string, error) {
	if err := p.LoadTitle(ctx); err != nil {
		return "", err
	}
	return p.title, nil
}

// TryTitle returns the title only when it is already resolvable without a
// fetch.
func (p *Page) TryTitle() (string, bool) {
	if err := p.TryLoadTitle(); err != nil {
		return "", false
	}
	return p.title, p.hasTitle
}

// Connections returns a new page per outbound article link, loading the body
// first when necessary. Discovered pages carry the link-text title and an
// unfetched body, and share this page's collaborators. Candidates that fail
// locator validation are dropped; their count is available from
// SkippedLinks.
func (p *Page) Connections(ctx context.Context) ([]*Page, error) {
	if err := p.LoadBody(ctx); err != nil {
		return nil, err
	}
	return p.connectionsFromBody(), nil
}

// TryConnections behaves like Connections but never fetches. ok is false
// when the body is not currently loaded.
func (p *Page) TryConnections() (pages []*Page, ok bool) {
	if !p.hasBody {
		return nil, false
	}
	return p.connectionsFromBody(), true
}

func (p *Page) connectionsFromBody() []*Page {
	links := p.extractor.Links(p.body)
	pages := make([]*Page, 0, len(links))
	skipped := 0

	for _, link := range links {
		u, err := PageURLFromPath(link.Path, p.hosts...)
		if err != nil {
			skipped++
			continue
		}
		pages = append(pages, &Page{
			url:       u,
			fetcher:   p.fetcher,
			extractor: p.extractor,
			hosts:     p.hosts,
			title:     link.Title,
			hasTitle:  true,
		})
	}

	p.skipped = skipped
	return pages
}

// SkippedLinks returns how many link candidates were dropped during the most
// recent extraction because their locator failed validation.
func (p *Page) SkippedLinks() int {
	return p.skipped
}
