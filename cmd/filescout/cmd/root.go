// Package cmd provides the CLI commands for FileScout.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/filescout/internal/config"
	"github.com/Aman-CERP/filescout/internal/fsindex"
	"github.com/Aman-CERP/filescout/internal/ignore"
	"github.com/Aman-CERP/filescout/internal/logging"
	"github.com/Aman-CERP/filescout/internal/query"
	"github.com/Aman-CERP/filescout/internal/watcher"
	"github.com/Aman-CERP/filescout/pkg/version"
)

var (
	flagRoot    string
	flagDebug   bool
	flagJSON    bool
	flagNoColor bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the filescout CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filescout",
		Short: "Live filesystem index and query engine",
		Long: `FileScout indexes a directory subtree into a compact in-memory store,
keeps it synchronized with filesystem changes via OS notifications, and
answers boolean queries with typed filters, glob patterns, and content
search against it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetVersionTemplate("filescout version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Directory to index (default: project root)")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging to ~/.filescout/logs/")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	cmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable styled output")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Println("Error:", err)
	}
	return err
}

// setupLogging installs file logging when --debug is set.
func setupLogging(_ *cobra.Command, _ []string) error {
	if !flagDebug {
		return nil
	}
	cleanup, err := logging.SetupDefault(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

// loadConfig builds the effective configuration for the selected root.
func loadConfig() (*config.Config, error) {
	root := flagRoot
	if root == "" {
		found, err := config.FindProjectRoot(".")
		if err != nil {
			return nil, err
		}
		root = found
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(abs)
	if err != nil {
		return nil, err
	}
	if flagRoot != "" {
		cfg.Root = abs
	}
	return cfg, nil
}

// openIndex builds an index per the config. With watch=false the index
// is a one-shot snapshot for a single command invocation.
func openIndex(ctx context.Context, cfg *config.Config, watch bool) (*fsindex.Index, error) {
	start := time.Now()
	ix, err := fsindex.Open(ctx, fsindex.Options{
		Root:   cfg.Root,
		Ignore: ignore.New(cfg.Ignore.Prefixes, cfg.Ignore.Patterns),
		Watch:  watch && cfg.Watcher.Enabled,
		Watcher: watcher.Options{
			DebounceWindow: cfg.DebounceWindow(),
			MaxBatch:       cfg.Watcher.MaxBatch,
		},
		CachePath: cfg.Cache.Path,
	})
	if err != nil {
		return nil, err
	}

	if err := ix.WaitReady(ctx); err != nil {
		_ = ix.Close()
		return nil, err
	}

	st := ix.Status()
	slog.Info("index ready",
		slog.String("root", cfg.Root),
		slog.Int("entries", st.IndexedEntries),
		slog.Duration("elapsed", time.Since(start)))
	return ix, nil
}

// newEngine builds a query engine over ix per the config.
func newEngine(ix *fsindex.Index, cfg *config.Config) *query.Engine {
	return query.NewEngine(ix, query.EngineOptions{
		MaxResults:           cfg.Search.MaxResults,
		ContentWorkers:       cfg.Search.ContentWorkers,
		ContentCacheSize:     cfg.Search.ContentCacheSize,
		CaseSensitiveContent: cfg.Search.CaseSensitive,
		IncludeHidden:        cfg.Search.IncludeHidden,
	})
}
