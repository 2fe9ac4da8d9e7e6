package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"autosales-dashboard/internal/config"
	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/services"
)

// app holds flags and the resolved configuration shared by subcommands.
type app struct {
	source   string
	cacheDir string
	noCache  bool
	quiet    bool
	timeout  time.Duration

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "salesctl",
		Short:        "Automobile sales statistics CLI",
		Long:         "Query yearly and recession statistics of the historical automobile sales dataset.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.source, "source", "s", "", "Dataset URL or CSV path (default from DATASET_SOURCE)")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "Snapshot cache directory (default from DATASET_CACHE_DIR)")
	flags.BoolVar(&a.noCache, "no-cache", false, "Skip the snapshot cache")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only log errors")
	flags.DurationVar(&a.timeout, "timeout", 0, "Dataset fetch timeout (default from DATASET_FETCH_TIMEOUT)")

	rootCmd.AddCommand(
		newQueryCmd(a),
		newYearControlCmd(),
		newStatsCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if a.source != "" {
		cfg.Dataset.Source = a.source
	}
	if a.cacheDir != "" {
		cfg.Dataset.CacheDir = a.cacheDir
	}
	if a.noCache {
		cfg.Dataset.CacheDir = ""
	}
	if a.timeout > 0 {
		cfg.Dataset.FetchTimeout = a.timeout
	}
	if a.quiet {
		cfg.Logger.Level = "error"
	}
	cfg.Logger.Format = "text"

	a.cfg = cfg
	a.logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logger)
	return nil
}

// loadEngine is the shared data loading path used by the query commands.
func (a *app) loadEngine(ctx context.Context) (*services.Engine, error) {
	loader := dataset.NewLoader(dataset.Options{
		HTTPClient: &http.Client{Timeout: a.cfg.Dataset.FetchTimeout},
		CacheDir:   a.cfg.Dataset.CacheDir,
		CacheTTL:   a.cfg.Dataset.CacheTTL,
		Logger:     a.logger,
	})

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Dataset.FetchTimeout)
	defer cancel()

	table, err := loader.Load(ctx, a.cfg.Dataset.Source)
	if err != nil {
		return nil, err
	}
	return services.NewEngine(table, a.logger), nil
}
