package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/wikigraph/internal/extract"
)

const wafflePage = `<!DOCTYPE html>
<html>
<head>
<title>Waffle - Wikipedia</title>
</head>
<body>
<p>A <a href="/wiki/Batter_(cooking)" class="mw-link" title="Batter">batter</a> cake.</p>
<p>Often eaten with <a href="/wiki/Maple_syrup" title="Maple syrup">maple syrup</a>.</p>
<p>Citation <a href="/wiki/Internet_Archive" title="Archived at the Wayback Machine">archive</a>.</p>
<p>External <a href="https://example.com/waffles" title="Waffle fan site">link</a>.</p>
</body>
</html>`

func TestPatternExtractor_Title(t *testing.T) {
	e := extract.NewPatternExtractor("")

	title, err := e.Title(wafflePage)
	require.NoError(t, err)
	assert.Equal(t, "Waffle", title)
}

func TestPatternExtractor_TitleOnlyConsidersTitleLines(t *testing.T) {
	e := extract.NewPatternExtractor("")

	body := "<p>Pancake - Wikipedia is an article</p>\n<title>Waffle - Wikipedia</title>"
	title, err := e.Title(body)
	require.NoError(t, err)
	assert.Equal(t, "Waffle", title)
}

func TestPatternExtractor_TitleMissing(t *testing.T) {
	e := extract.NewPatternExtractor("")

	_, err := e.Title("<html><body>nothing here</body></html>")
	assert.ErrorIs(t, err, extract.ErrNoTitle)

	_, err = e.Title("<title>Completely unrelated</title>")
	assert.ErrorIs(t, err, extract.ErrNoTitle)
}

func TestPatternExtractor_CustomSiteName(t *testing.T) {
	e := extract.NewPatternExtractor("Wikiquote")

	title, err := e.Title("<title>Waffle - Wikiquote</title>")
	require.NoError(t, err)
	assert.Equal(t, "Waffle", title)

	_, err = e.Title("<title>Waffle - Wikipedia</title>")
	assert.ErrorIs(t, err, extract.ErrNoTitle)
}

func TestPatternExtractor_Links(t *testing.T) {
	e := extract.NewPatternExtractor("")

	links := e.Links(wafflePage)
	assert.Equal(t, []extract.Link{
		{Path: "/wiki/Batter_(cooking)", Title: "Batter"},
		{Path: "/wiki/Maple_syrup", Title: "Maple syrup"},
	}, links)
}

func TestPatternExtractor_LinksDropArchiveReferences(t *testing.T) {
	e := extract.NewPatternExtractor("")

	links := e.Links(`<a href="/wiki/Internet_Archive" title="Wayback Machine">archive</a>`)
	assert.Empty(t, links)
}

func TestPatternExtractor_LinksEmptyBody(t *testing.T) {
	e := extract.NewPatternExtractor("")

	assert.Empty(t, e.Links(""))
}
