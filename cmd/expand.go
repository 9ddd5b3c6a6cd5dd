package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/wikigraph/internal/graph"
	"github.com/jonesrussell/wikigraph/internal/storage"
	"github.com/jonesrussell/wikigraph/internal/wiki"
)

// newExpandCommand creates the expand command: seed an article, grow the
// graph breadth-first and render the result.
func newExpandCommand() *cobra.Command {
	var (
		depth      int
		maxPages   int
		save       bool
		dedup      bool
		structural bool
	)

	cmd := &cobra.Command{
		Use:   "expand <path|url>",
		Short: "Expand an article into a semantic network",
		Long: `Expand fetches the seed article, extracts its outbound article links and
inserts each linked article as a new graph node, repeating breadth-first up
to the requested depth.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			cfg := d.cfg

			if cmd.Flags().Changed("depth") {
				cfg.Expand.MaxDepth = depth
			}
			if cmd.Flags().Changed("max-pages") {
				cfg.Expand.MaxPages = maxPages
			}
			if dedup {
				cfg.Expand.Dedup = true
			}

			seedURL, err := resolveSeed(args[0], cfg.Wiki.Hosts)
			if err != nil {
				return fmt.Errorf("invalid seed: %w", err)
			}

			seed := wiki.NewPage(seedURL,
				wiki.WithFetcher(newFetcher(cfg)),
				wiki.WithExtractor(newExtractor(cfg, structural)),
				wiki.WithHosts(cfg.Wiki.Hosts...),
			)

			opts := []graph.Option{graph.WithLogger(d.log)}
			if cfg.Expand.Dedup {
				opts = append(opts, graph.WithDeduplication())
			}
			if cfg.Expand.ReportSkipped {
				opts = append(opts, graph.WithSkippedLinkReporting())
			}

			g := graph.New(opts...)
			root := g.AddPage(seed)

			d.log.Info("expanding article",
				"seed", seedURL.String(),
				"depth", cfg.Expand.MaxDepth,
				"max_pages", cfg.Expand.MaxPages,
			)

			ctx := cmd.Context()
			if err := g.ExpandBreadthFirst(ctx, root, cfg.Expand.MaxDepth, cfg.Expand.MaxPages); err != nil {
				return fmt.Errorf("expansion failed: %w", err)
			}

			renderGraph(g)
			d.log.Info("expansion complete", "nodes", g.Len(), "edges", g.EdgeCount())

			if save {
				store, openErr := storage.Open(cfg.Storage.Path)
				if openErr != nil {
					return openErr
				}
				defer store.Close()

				runID, saveErr := store.SaveRun(ctx, seedURL.String(), g)
				if saveErr != nil {
					return fmt.Errorf("failed to save run: %w", saveErr)
				}
				d.log.Info("run saved", "run_id", runID, "path", cfg.Storage.Path)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 1, "number of expansion levels")
	cmd.Flags().IntVar(&maxPages, "max-pages", 50, "stop once the graph holds this many nodes (0 = unlimited)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the run to storage")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "reuse existing nodes for already-seen articles")
	cmd.Flags().BoolVar(&structural, "dom", false, "use the structural (goquery) extractor")

	return cmd
}

// renderGraph prints the graph's nodes as a table.
func renderGraph(g *graph.Graph) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Node", "Title", "URL"})

	for _, id := range g.NodeIDs() {
		page, err := g.Page(id)
		if err != nil {
			continue
		}
		title, _ := page.TryTitle()
		t.AppendRow(table.Row{id, title, page.URL().String()})
	}

	t.Render()
}
