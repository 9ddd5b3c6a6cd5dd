package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternExtractor extracts titles and links with regular expressions. This
// is a lightweight match against the stable shape of the target markup, not a
// full parse; see DOMExtractor for the structural alternative.
type PatternExtractor struct {
	titleRe *regexp.Regexp
	linkRe  *regexp.Regexp
}

// linkPattern matches in-site article anchors: an href to an article path,
// an optional class attribute, then the display title.
const linkPattern = `<a href="(/wiki/[a-zA-Z_()]+)"(?: class="[a-zA-Z_-]+")? title="([a-zA-Z ]+)"`

// NewPatternExtractor creates a pattern extractor expecting page titles of
// the form "<ArticleTitle> - <siteName>". An empty siteName falls back to
// DefaultSiteName.
func NewPatternExtractor(siteName string) *PatternExtractor {
	if siteName == "" {
		siteName = DefaultSiteName
	}

	return &PatternExtractor{
		titleRe: regexp.MustCompile(fmt.Sprintf(`([a-zA-Z ]+) - %s`, regexp.QuoteMeta(siteName))),
		linkRe:  regexp.MustCompile(linkPattern),
	}
}

// Title scans the body line by line for <title> elements and matches the
// article-title capture group against the retained lines.
func (e *PatternExtractor) Title(body string) (string, error) {
	var sb strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, "<title>") {
			sb.WriteString(line)
		}
	}

	matches := e.titleRe.FindStringSubmatch(sb.String())
	if matches == nil {
		return "", ErrNoTitle
	}

	return matches[1], nil
}

// Links scans the full body for article anchors, discarding archive
// references.
func (e *PatternExtractor) Links(body string) []Link {
	matches := e.linkRe.FindAllStringSubmatch(body, -1)
	links := make([]Link, 0, len(matches))

	for _, m := range matches {
		if strings.Contains(m[2], archiveMarker) {
			continue
		}
		links = append(links, Link{Path: m[1], Title: m[2]})
	}

	return links
}
