// Package testutils provides testing utilities shared across packages.
package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// WikiLink is one outbound article link embedded in generated markup.
type WikiLink struct {
	Path  string
	Title string
}

// ArticleHTML builds a minimal Wikipedia-like article page: a single <title>
// element of the form "<title> - Wikipedia" and one titled anchor per link.
func ArticleHTML(title string, links ...WikiLink) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&sb, "<title>%s - Wikipedia</title>\n", title)
	sb.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", title)
	for _, link := range links {
		fmt.Fprintf(&sb, `<p>See <a href="%s" title="%s">%s</a>.</p>`+"\n",
			link.Path, link.Title, link.Title)
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// MockWikiServer serves canned article pages and counts requests per path.
type MockWikiServer struct {
	*httptest.Server

	mu     sync.Mutex
	counts map[string]int
}

// NewMockWikiServer creates a test server serving the provided content map.
// The map key is the URL path, the value the HTML to serve; unknown paths
// get a 404.
func NewMockWikiServer(content map[string]string) *MockWikiServer {
	s := &MockWikiServer{counts: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[r.URL.Path]++
		s.mu.Unlock()

		html, ok := content[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, "<html><body>404 Not Found</body></html>")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, html)
	})

	s.Server = httptest.NewServer(mux)
	return s
}

// RequestCount returns how many times the path was fetched.
func (s *MockWikiServer) RequestCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[path]
}
