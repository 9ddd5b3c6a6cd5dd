package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOMExtractor extracts titles and links by parsing the document structure
// with goquery. It honors the same contract as PatternExtractor but survives
// markup reformatting that breaks the regular expressions.
type DOMExtractor struct {
	siteName string
}

// NewDOMExtractor creates a structural extractor. An empty siteName falls
// back to DefaultSiteName.
func NewDOMExtractor(siteName string) *DOMExtractor {
	if siteName == "" {
		siteName = DefaultSiteName
	}

	return &DOMExtractor{siteName: siteName}
}

// Title returns the text of the first <title> element with the trailing
// " - <siteName>" suffix stripped.
func (e *DOMExtractor) Title(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", ErrNoTitle
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	suffix := " - " + e.siteName
	if title == "" || !strings.HasSuffix(title, suffix) {
		return "", ErrNoTitle
	}

	return strings.TrimSuffix(title, suffix), nil
}

// Links returns every titled anchor pointing at an article path, discarding
// archive references.
func (e *DOMExtractor) Links(body string) []Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []Link
	doc.Find(`a[href^="/wiki/"]`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		title, ok := sel.Attr("title")
		if !ok || strings.Contains(title, archiveMarker) {
			return
		}
		links = append(links, Link{Path: href, Title: title})
	})

	return links
}
