// Package graph holds a directed graph of wiki pages and grows it by
// expanding one node's outbound links into new nodes and edges.
package graph

import (
	"context"
	"fmt"

	"github.com/jonesrussell/wikigraph/internal/logger"
	"github.com/jonesrussell/wikigraph/internal/wiki"
)

// NodeID is an opaque node handle assigned at insertion time, stable for the
// node's lifetime.
type NodeID int

// Edge is a directed edge meaning "source article links to target article".
// Edges carry no payload and parallel edges between the same pair are
// permitted.
type Edge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// NodeNotFoundError reports a handle that does not name a node in this
// graph. It is an ordinary recoverable error, never a process abort.
type NodeNotFoundError struct {
	ID NodeID
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %d does not exist", e.ID)
}

// Graph is a directed graph of pages. It is not safe for concurrent use;
// every expansion is a blocking, single-threaded operation.
type Graph struct {
	nodes  map[NodeID]*wiki.Page
	edges  []Edge
	next   NodeID
	log    logger.Interface
	dedup  bool
	byURL  map[string]NodeID
	report bool
}

// Option configures a graph at construction time.
type Option func(*Graph)

// WithLogger sets the logger used for best-effort failures during expansion.
func WithLogger(log logger.Interface) Option {
	return func(g *Graph) { g.log = log }
}

// WithDeduplication makes expansion consult a locator-keyed index before
// inserting, so revisiting the same article reuses the existing node instead
// of creating a duplicate. Off by default.
func WithDeduplication() Option {
	return func(g *Graph) { g.dedup = true }
}

// WithSkippedLinkReporting logs the number of link candidates dropped during
// each expansion. Off by default, matching the silent drop policy.
func WithSkippedLinkReporting() Option {
	return func(g *Graph) { g.report = true }
}

// New creates an empty directed graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: make(map[NodeID]*wiki.Page),
		byURL: make(map[string]NodeID),
		log:   logger.NewNoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddPage inserts the page as a new node with no edges and returns its
// handle.
func (g *Graph) AddPage(p *wiki.Page) NodeID {
	id := g.next
	g.next++
	g.nodes[id] = p
	if g.dedup {
		if _, exists := g.byURL[p.URL().String()]; !exists {
			g.byURL[p.URL().String()] = id
		}
	}
	return id
}

// AddEdge inserts a directed edge between two existing nodes.
func (g *Graph) AddEdge(from, to NodeID) error {
	if _, ok := g.nodes[from]; !ok {
		return &NodeNotFoundError{ID: from}
	}
	if _, ok := g.nodes[to]; !ok {
		return &NodeNotFoundError{ID: to}
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	return nil
}

// Page returns the page stored under the handle.
func (g *Graph) Page(id NodeID) (*wiki.Page, error) {
	p, ok := g.nodes[id]
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}
	return p, nil
}

// ExpandPage fetches the node's outbound links and inserts each as a new
// node with a directed edge from the expanded node. Title resolution is best
// effort: a missing title never blocks expansion. Transport failures
// propagate to the caller. Returns the handles of the nodes the new edges
// point at.
func (g *Graph) ExpandPage(ctx context.Context, id NodeID) ([]NodeID, error) {
	page, err := g.Page(id)
	if err != nil {
		return nil, err
	}

	if titleErr := page.LoadTitle(ctx); titleErr != nil {
		g.log.Debug("title resolution failed during expansion",
			"node", id, "url", page.URL().String(), "error", titleErr)
	}

	connections, err := page.Connections(ctx)
	if err != nil {
		return nil, fmt.Errorf("expand node %d: %w", id, err)
	}

	if g.report && page.SkippedLinks() > 0 {
		g.log.Info("dropped invalid link candidates",
			"node", id, "skipped", page.SkippedLinks())
	}

	children := make([]NodeID, 0, len(connections))
	for _, connection := range connections {
		childID, ok := g.insertConnection(connection)
		if !ok {
			continue
		}
		// Edge failures degrade gracefully; the expansion continues.
		if edgeErr := g.AddEdge(id, childID); edgeErr != nil {
			g.log.Warn("failed to add edge", "from", id, "to", childID, "error", edgeErr)
			continue
		}
		children = append(children, childID)
	}

	return children, nil
}

// insertConnection adds the connection as a node, reusing an existing node
// when deduplication is on and the locator is already indexed.
func (g *Graph) insertConnection(p *wiki.Page) (NodeID, bool) {
	key := p.URL().String()
	if g.dedup {
		if existing, ok := g.byURL[key]; ok {
			return existing, true
		}
	}
	if key == "" {
		// A page without a validated locator cannot become a node.
		g.log.Warn("skipping connection with empty locator")
		return 0, false
	}
	return g.AddPage(p), true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// NodeIDs returns every node handle in insertion order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := NodeID(0); id < g.next; id++ {
		if _, ok := g.nodes[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Edges returns a copy of every edge in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}
