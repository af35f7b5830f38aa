package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filescout/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Build the index and report its statistics",
		Long: `Status runs a full scan of the root directory and reports entry
counts, timing, and any unreadable paths encountered during the walk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ix, err := openIndex(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer func() { _ = ix.Close() }()

			out := cmd.OutOrStdout()
			st := ix.Status()
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			r := ui.NewStatusRenderer(out, ui.UsePlain(out, flagNoColor))
			return r.Render(st)
		},
	}
	return cmd
}
