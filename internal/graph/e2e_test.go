package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/wikigraph/internal/fetch"
	"github.com/jonesrussell/wikigraph/internal/graph"
	"github.com/jonesrussell/wikigraph/internal/wiki"
	"github.com/jonesrussell/wikigraph/testutils"
)

// rewritingFetcher sends canonical article addresses to the local test
// server.
func rewritingFetcher(serverURL string) wiki.Fetcher {
	client := fetch.NewClient(fetch.Config{})
	return wiki.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		return client.Fetch(ctx, strings.Replace(url, "https://en.wikipedia.org", serverURL, 1))
	})
}

func TestEndToEnd_TitleOverHTTP(t *testing.T) {
	server := testutils.NewMockWikiServer(map[string]string{
		"/wiki/Waffle": testutils.ArticleHTML("Waffle"),
	})
	defer server.Close()

	u, err := wiki.PageURLFromPath("/wiki/Waffle")
	require.NoError(t, err)

	page := wiki.NewPage(u, wiki.WithFetcher(rewritingFetcher(server.URL)))

	title, err := page.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Waffle", title)
	assert.Equal(t, 1, server.RequestCount("/wiki/Waffle"))

	// Unloading and re-deriving fetches exactly once more.
	page.UnloadBody()
	require.NoError(t, page.LoadBody(context.Background()))
	assert.Equal(t, 2, server.RequestCount("/wiki/Waffle"))
}

func TestEndToEnd_ExpandOverHTTP(t *testing.T) {
	server := testutils.NewMockWikiServer(map[string]string{
		"/wiki/Waffle": testutils.ArticleHTML("Waffle",
			testutils.WikiLink{Path: "/wiki/Pancake", Title: "Pancake"},
			testutils.WikiLink{Path: "/wiki/Batter_(cooking)", Title: "Batter"},
			testutils.WikiLink{Path: "/wiki/Maple_syrup", Title: "Maple syrup"},
			testutils.WikiLink{Path: "/wiki/Internet_Archive", Title: "Archived at the Wayback Machine"},
		),
	})
	defer server.Close()

	u, err := wiki.PageURLFromPath("/wiki/Waffle")
	require.NoError(t, err)

	g := graph.New()
	root := g.AddPage(wiki.NewPage(u, wiki.WithFetcher(rewritingFetcher(server.URL))))

	children, err := g.ExpandPage(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, children, 3)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 3, g.EdgeCount())

	rootPage, err := g.Page(root)
	require.NoError(t, err)
	title, ok := rootPage.TryTitle()
	assert.True(t, ok)
	assert.Equal(t, "Waffle", title)
}
