package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/wikigraph/internal/storage"
)

// newRunsCommand creates the runs command group for inspecting persisted
// crawl runs.
func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage saved graph expansion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRunsListCommand())

	return cmd
}

// newRunsListCommand creates the runs list command: display all saved runs in
// a formatted table.
func newRunsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}

			store, err := storage.Open(d.cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				d.log.Info("No runs saved yet")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Seed", "Nodes", "Edges", "Created"})
			for _, run := range runs {
				t.AppendRow(table.Row{
					run.ID,
					run.Seed,
					run.NodeCount,
					run.EdgeCount,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			t.Render()

			return nil
		},
	}
}
