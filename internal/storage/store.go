// Package storage persists crawl runs to an embedded sqlite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/jonesrussell/wikigraph/internal/graph"
)

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted graph expansion.
type Run struct {
	ID        string    `db:"id"         json:"id"`
	Seed      string    `db:"seed"       json:"seed"`
	NodeCount int       `db:"node_count" json:"node_count"`
	EdgeCount int       `db:"edge_count" json:"edge_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Node is one persisted graph node.
type Node struct {
	RunID  string `db:"run_id"  json:"-"`
	NodeID int    `db:"node_id" json:"node_id"`
	URL    string `db:"url"     json:"url"`
	Title  string `db:"title"   json:"title,omitempty"`
}

// EdgeRow is one persisted directed edge.
type EdgeRow struct {
	RunID    string `db:"run_id"    json:"-"`
	FromNode int    `db:"from_node" json:"from"`
	ToNode   int    `db:"to_node"   json:"to"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	seed       TEXT NOT NULL,
	node_count INTEGER NOT NULL,
	edge_count INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	node_id INTEGER NOT NULL,
	url     TEXT NOT NULL,
	title   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, node_id)
);
CREATE TABLE IF NOT EXISTS edges (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	from_node INTEGER NOT NULL,
	to_node   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_run ON edges(run_id);
`

// Store wraps the sqlite database.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the sqlite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", execErr)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists the graph's nodes and edges as a new run and returns the
// run ID.
func (s *Store) SaveRun(ctx context.Context, seed string, g *graph.Graph) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, node_count, edge_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, seed, g.Len(), g.EdgeCount(), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, id := range g.NodeIDs() {
		page, pageErr := g.Page(id)
		if pageErr != nil {
			continue
		}
		title, _ := page.TryTitle()
		if _, insErr := tx.ExecContext(ctx,
			`INSERT INTO nodes (run_id, node_id, url, title) VALUES (?, ?, ?, ?)`,
			runID, int(id), page.URL().String(), title,
		); insErr != nil {
			return "", fmt.Errorf("insert node %d: %w", id, insErr)
		}
	}

	for _, e := range g.Edges() {
		if _, insErr := tx.ExecContext(ctx,
			`INSERT INTO edges (run_id, from_node, to_node) VALUES (?, ?, ?)`,
			runID, int(e.From), int(e.To),
		); insErr != nil {
			return "", fmt.Errorf("insert edge %d->%d: %w", e.From, e.To, insErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return "", fmt.Errorf("commit run: %w", commitErr)
	}

	return runID, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		`SELECT id, seed, node_count, edge_count, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run's metadata.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run,
		`SELECT id, seed, node_count, edge_count, created_at FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// GetNodes returns a run's nodes in handle order.
func (s *Store) GetNodes(ctx context.Context, runID string) ([]Node, error) {
	var nodes []Node
	err := s.db.SelectContext(ctx, &nodes,
		`SELECT run_id, node_id, url, title FROM nodes WHERE run_id = ? ORDER BY node_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("get nodes for run %s: %w", runID, err)
	}
	return nodes, nil
}

// GetEdges returns a run's edges in insertion order.
func (s *Store) GetEdges(ctx context.Context, runID string) ([]EdgeRow, error) {
	var edges []EdgeRow
	err := s.db.SelectContext(ctx, &edges,
		`SELECT run_id, from_node, to_node FROM edges WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("get edges for run %s: %w", runID, err)
	}
	return edges, nil
}
