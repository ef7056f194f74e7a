package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"studybuddy/internal/adapters/sqlite"
	"studybuddy/internal/clustering"
	"studybuddy/internal/config"
	"studybuddy/internal/logging"
	"studybuddy/internal/metrics"
)

var (
	configPath string
	runID      string

	cfg   *config.Loaded
	store *sqlite.Store
)

// flagKeys maps flags to the config keys they override
var flagKeys = map[string]string{
	"db":                "db_path",
	"log-level":         "log.level",
	"log-format":        "log.format",
	"metrics-file":      "metrics_file",
	"api-key":           "eutils.api_key",
	"min-cluster-size":  "clustering.min_cluster_size",
	"min-lineage-depth": "clustering.min_lineage_depth",
	"exclude":           "clustering.excluded_branches",
	"per-cluster":       "cards.per_cluster",
	"model":             "cards.model",
}

var rootCmd = &cobra.Command{
	Use:   "studybuddy-cli",
	Short: "Cluster PubMed records by MeSH lineage and turn them into flash cards",
	Long: `studybuddy-cli fetches PubMed records, groups them into topic clusters
using the MeSH tree, and builds Anki decks from the clusters.

A typical session:
  studybuddy-cli import vocab desc2025.xml
  studybuddy-cli fetch --journal "Vet Surg" --from 2020
  studybuddy-cli cluster
  studybuddy-cli show
  studybuddy-cli cards
  studybuddy-cli export deck -o deck.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return loadConfig(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close cache: %w", err)
			}
			store = nil
		}
		if cfg == nil {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log := logging.Logger()
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("failed to write metrics")
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/studybuddy/config.yaml)")
	pf.String("db", "", "path to the local cache")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error, off")
	pf.String("log-format", "", "log format: console or json")
	pf.String("metrics-file", "", "write Prometheus metrics to this file after each command")
}

// loadConfig resolves the configuration, applies the flags the user set and
// initializes logging.
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(config.LoadOptions{Path: configPath})
	if err != nil {
		return err
	}

	var flagErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || flagErr != nil {
			return
		}
		value := f.Value.String()
		if sv, isSlice := f.Value.(pflag.SliceValue); isSlice {
			value = strings.Join(sv.GetSlice(), ",")
		}
		flagErr = loaded.Set(key, value, config.SourceFlag, "--"+f.Name)
	})
	if flagErr != nil {
		return flagErr
	}

	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logging.Init(logCfg)
	return nil
}

// openStore opens the cache named by the config. It is closed after the command.
func openStore() (*sqlite.Store, error) {
	if store != nil {
		return store, nil
	}
	s, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	store = s
	return store, nil
}

// clusteringOptions returns the engine knobs from the config
func clusteringOptions() clustering.Options {
	return clustering.Options{
		MinClusterSize:   cfg.Clustering.MinClusterSize,
		MinLineageDepth:  cfg.Clustering.MinLineageDepth,
		ExcludedBranches: cfg.Clustering.ExcludedBranches,
	}
}

// addRunFlag adds --run to commands that read a clustering run
func addRunFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runID, "run", "", "run ID (default latest run)")
}
