package graph

import "context"

// ExpandBreadthFirst expands the graph level by level starting from root,
// stopping after maxDepth levels or once the graph holds at least maxNodes
// nodes (0 means unlimited). A failed expansion of one node is logged and
// skipped so a single bad page never terminates the traversal. Expanded
// bodies are unloaded as soon as their links are materialized.
func (g *Graph) ExpandBreadthFirst(ctx context.Context, root NodeID, maxDepth, maxNodes int) error {
	if _, err := g.Page(root); err != nil {
		return err
	}

	frontier := []NodeID{root}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []NodeID

		for _, id := range frontier {
			if maxNodes > 0 && g.Len() >= maxNodes {
				return nil
			}

			children, err := g.ExpandPage(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				g.log.Warn("skipping node after failed expansion",
					"node", id, "depth", depth, "error", err)
				continue
			}

			if page, pageErr := g.Page(id); pageErr == nil {
				page.UnloadBody()
			}

			next = append(next, children...)
		}

		frontier = next
	}

	return nil
}
