package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/wikigraph/internal/wiki"
)

// newTitleCommand creates the title command: fetch one article and print its
// derived title.
func newTitleCommand() *cobra.Command {
	var structural bool

	cmd := &cobra.Command{
		Use:   "title <path|url>",
		Short: "Fetch an article and print its title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			cfg := d.cfg

			u, err := resolveSeed(args[0], cfg.Wiki.Hosts)
			if err != nil {
				return fmt.Errorf("invalid article: %w", err)
			}

			page, err := wiki.NewPageLoadTitle(cmd.Context(), u,
				wiki.WithFetcher(newFetcher(cfg)),
				wiki.WithExtractor(newExtractor(cfg, structural)),
				wiki.WithHosts(cfg.Wiki.Hosts...),
			)
			if err != nil {
				return err
			}

			title, err := page.Title(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&structural, "dom", false, "use the structural (goquery) extractor")

	return cmd
}
