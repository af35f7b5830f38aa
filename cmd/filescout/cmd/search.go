package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filescout/internal/ui"
)

func newSearchCmd() *cobra.Command {
	var (
		maxResults int
		hidden     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index with a boolean query",
		Long: `Search builds an index of the root directory and evaluates a query
against it.

Queries combine bare terms, quoted phrases, and key:value filters with
AND, OR, NOT (or a leading dash) and parentheses. Bare terms match
names and paths and support * and ? wildcards.

Filters: file:, folder:, ext:, type:, size:, modified:, created:,
content:, tag:, parent:, infolder:, nosubfolders:, and the type macros
image:, video:, audio:, doc:, archive:, code:.`,
		Example: `  filescout search "report"
  filescout search "ext:rs size:>10kb"
  filescout search "type:image modified:thisweek"
  filescout search "content:TODO -infolder:vendor"
  filescout search "(doc: OR ext:txt) created:>2026-01-01"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if maxResults > 0 {
				cfg.Search.MaxResults = maxResults
			}
			if hidden {
				cfg.Search.IncludeHidden = true
			}

			ix, err := openIndex(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer func() { _ = ix.Close() }()

			eng := newEngine(ix, cfg)
			res, err := eng.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := ui.NewResultsRenderer(out, ui.UsePlain(out, flagNoColor))
			if flagJSON {
				return r.RenderJSON(res)
			}
			return r.Render(res)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Cap on returned entries (0 = config default)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Include hidden entries in results")
	return cmd
}
