package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/wikigraph/internal/graph"
	"github.com/jonesrussell/wikigraph/internal/wiki"
	"github.com/jonesrussell/wikigraph/testutils"
)

// mapFetcher serves canned bodies keyed by URL and counts fetches per URL.
type mapFetcher struct {
	pages  map[string]string
	calls  map[string]int
	errFor map[string]error
}

func newMapFetcher() *mapFetcher {
	return &mapFetcher{
		pages:  make(map[string]string),
		calls:  make(map[string]int),
		errFor: make(map[string]error),
	}
}

func (f *mapFetcher) add(url, body string) {
	f.pages[url] = body
}

func (f *mapFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls[url]++
	if err, ok := f.errFor[url]; ok {
		return "", err
	}
	body, ok := f.pages[url]
	if !ok {
		return "", errors.New("unexpected fetch: " + url)
	}
	return body, nil
}

func newTestPage(t *testing.T, path string, fetcher wiki.Fetcher) *wiki.Page {
	t.Helper()
	u, err := wiki.PageURLFromPath(path)
	require.NoError(t, err)
	return wiki.NewPage(u, wiki.WithFetcher(fetcher))
}

func TestGraph_AddPageAssignsStableHandles(t *testing.T) {
	g := graph.New()

	first := g.AddPage(newTestPage(t, "/wiki/Waffle", nil))
	second := g.AddPage(newTestPage(t, "/wiki/Pancake", nil))

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, g.Len())

	page, err := g.Page(first)
	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Waffle", page.URL().String())
}

func TestGraph_PageRejectsUnknownHandle(t *testing.T) {
	g := graph.New()

	_, err := g.Page(graph.NodeID(42))

	var notFound *graph.NodeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, graph.NodeID(42), notFound.ID)
}

func TestGraph_AddEdgeValidatesHandles(t *testing.T) {
	g := graph.New()
	id := g.AddPage(newTestPage(t, "/wiki/Waffle", nil))

	var notFound *graph.NodeNotFoundError
	assert.ErrorAs(t, g.AddEdge(id, graph.NodeID(99)), &notFound)
	assert.ErrorAs(t, g.AddEdge(graph.NodeID(99), id), &notFound)
	assert.Equal(t, 0, g.EdgeCount())

	require.NoError(t, g.AddEdge(id, id))
	require.NoError(t, g.AddEdge(id, id))
	assert.Equal(t, 2, g.EdgeCount(), "parallel edges are permitted")
}

func TestGraph_ExpandPageRejectsUnknownHandle(t *testing.T) {
	g := graph.New()

	_, err := g.ExpandPage(context.Background(), graph.NodeID(7))

	var notFound *graph.NodeNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGraph_ExpandPageCreatesNodesAndEdges(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("https://en.wikipedia.org/wiki/Waffle", testutils.ArticleHTML("Waffle",
		testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"},
		testutils.WikiLink{Path: "/wiki/Batter_(cooking)", Title: "Batter"},
		testutils.WikiLink{Path: "/wiki/Maple_syrup", Title: "Maple syrup"},
		testutils.WikiLink{Path: "/wiki/Internet_Archive", Title: "Archived at the Wayback Machine"},
	))

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	children, err := g.ExpandPage(context.Background(), root)
	require.NoError(t, err)

	// Three new nodes and three edges; the archive reference is absent.
	assert.Len(t, children, 3)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 3, g.EdgeCount())

	for _, edge := range g.Edges() {
		assert.Equal(t, root, edge.From)
	}

	for _, childID := range children {
		child, pageErr := g.Page(childID)
		require.NoError(t, pageErr)
		title, ok := child.TryTitle()
		assert.True(t, ok)
		assert.NotContains(t, title, "Wayback Machine")
	}
}

func TestGraph_ExpandPageSwallowsTitleFailure(t *testing.T) {
	fetcher := newMapFetcher()
	// Body has links but no recognizable title.
	fetcher.add("https://en.wikipedia.org/wiki/Waffle",
		`<a href="/wiki/Pancake" title="Pancake">pancake</a>`)

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	children, err := g.ExpandPage(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestGraph_ExpandPagePropagatesTransportFailure(t *testing.T) {
	transportErr := errors.New("gateway timeout")
	fetcher := newMapFetcher()
	fetcher.errFor["https://en.wikipedia.org/wiki/Waffle"] = transportErr

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	_, err := g.ExpandPage(context.Background(), root)
	assert.ErrorIs(t, err, transportErr)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestGraph_ExpandPageDuplicatesByDefault(t *testing.T) {
	fetcher := newMapFetcher()
	body := testutils.ArticleHTML("Waffle",
		testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"})
	fetcher.add("https://en.wikipedia.org/wiki/Waffle", body)

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	_, err := g.ExpandPage(context.Background(), root)
	require.NoError(t, err)

	page, err := g.Page(root)
	require.NoError(t, err)
	page.UnloadBody()

	_, err = g.ExpandPage(context.Background(), root)
	require.NoError(t, err)

	// Two expansions, two distinct Pancake nodes.
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestGraph_ExpandPageWithDeduplication(t *testing.T) {
	fetcher := newMapFetcher()
	body := testutils.ArticleHTML("Waffle",
		testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"})
	fetcher.add("https://en.wikipedia.org/wiki/Waffle", body)

	g := graph.New(graph.WithDeduplication())
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	first, err := g.ExpandPage(context.Background(), root)
	require.NoError(t, err)

	page, err := g.Page(root)
	require.NoError(t, err)
	page.UnloadBody()

	second, err := g.ExpandPage(context.Background(), root)
	require.NoError(t, err)

	// The second expansion reuses the existing Pancake node; parallel edges
	// remain permitted.
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestGraph_ExpandBreadthFirst(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("https://en.wikipedia.org/wiki/Waffle", testutils.ArticleHTML("Waffle",
		testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"},
		testutils.WikiLink{Path: "/wiki/Maple_syrup", Title: "Maple syrup"},
	))
	fetcher.add("https://en.wikipedia.org/wiki/Pancake", testutils.ArticleHTML("Pancake",
		testutils.WikiLink{Path: "/wiki/Crepe", Title: "Crepe"},
	))
	fetcher.add("https://en.wikipedia.org/wiki/Maple_syrup", testutils.ArticleHTML("Maple syrup"))

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	require.NoError(t, g.ExpandBreadthFirst(context.Background(), root, 2, 0))

	// Waffle, Pancake, Maple syrup, Crepe.
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 3, g.EdgeCount())

	// Expanded bodies were unloaded; pre-populated titles survive.
	rootPage, err := g.Page(root)
	require.NoError(t, err)
	assert.False(t, rootPage.BodyLoaded())
	title, ok := rootPage.TryTitle()
	assert.True(t, ok)
	assert.Equal(t, "Waffle", title)
}

func TestGraph_ExpandBreadthFirstSkipsFailedNodes(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("https://en.wikipedia.org/wiki/Waffle", testutils.ArticleHTML("Waffle",
		testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"},
		testutils.WikiLink{Path: "/wiki/Maple_syrup", Title: "Maple syrup"},
	))
	fetcher.errFor["https://en.wikipedia.org/wiki/Pancake"] = errors.New("boom")
	fetcher.add("https://en.wikipedia.org/wiki/Maple_syrup", testutils.ArticleHTML("Maple syrup",
		testutils.WikiLink{Path: "/wiki/Sugar", Title: "Sugar"},
	))

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	require.NoError(t, g.ExpandBreadthFirst(context.Background(), root, 2, 0))

	// The failing Pancake node is skipped, the rest of the level expands.
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 3, g.EdgeCount())
}

func TestGraph_ExpandBreadthFirstHonorsNodeCap(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("https://en.wikipedia.org/wiki/Waffle", testutils.ArticleHTML("Waffle",
		testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"},
	))

	g := graph.New()
	root := g.AddPage(newTestPage(t, "/wiki/Waffle", fetcher))

	require.NoError(t, g.ExpandBreadthFirst(context.Background(), root, 5, 1))

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestGraph_ExpandBreadthFirstRejectsUnknownRoot(t *testing.T) {
	g := graph.New()

	err := g.ExpandBreadthFirst(context.Background(), graph.NodeID(3), 1, 0)

	var notFound *graph.NodeNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
