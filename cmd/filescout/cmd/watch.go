package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filescout/internal/ui"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Index the root and keep it synchronized until interrupted",
		Long: `Watch builds the index, subscribes to OS file notifications, and
applies changes as they arrive. The index status is reported whenever
an update lands. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ix, err := openIndex(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer func() { _ = ix.Close() }()

			out := cmd.OutOrStdout()
			r := ui.NewStatusRenderer(out, ui.UsePlain(out, flagNoColor))
			if err := r.Render(ix.Status()); err != nil {
				return err
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			last := ix.Status().LastUpdateAt
			for {
				select {
				case <-ctx.Done():
					slog.Info("watch stopped", slog.String("root", cfg.Root))
					fmt.Fprintln(out, "stopped")
					return nil
				case <-ticker.C:
					st := ix.Status()
					if st.LastUpdateAt.Equal(last) {
						continue
					}
					last = st.LastUpdateAt
					fmt.Fprintf(out, "updated: %d entries, %d rescans\n",
						st.IndexedEntries, st.RescanCount)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "How often to poll for status changes")
	return cmd
}
