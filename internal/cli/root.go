package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"valyurag/config"
	"valyurag/internal/adapter/logging"
	"valyurag/internal/adapter/valyu"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string

	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *valyu.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "valyu",
	Short: "Valyu search and content extraction for RAG pipelines",
	Long: `valyu queries the Valyu DeepSearch API and extracts page content through the
Contents API, producing content records ready for a retrieval pipeline.

The API key is read from VALYU_API_KEY unless the config names another variable.

Example usage:
  valyu search -q "transformer attention"        # Search web and proprietary sources
  valyu fetch https://example.com/article        # Extract page content
  valyu research -q "battery chemistry" --fetch 3`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}

		registry = nil
		metrics = nil
		if cfg.Metrics.Enabled {
			registry = prometheus.NewRegistry()
			metrics = valyu.NewMetrics()
			registry.MustRegister(metrics.Collectors()...)
		}
		return nil
	},
}

// Execute runs the root command. The metrics summary and logger flush happen
// after every command, including failed ones.
func Execute() {
	if err := executeContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func executeContext(ctx context.Context) error {
	defer finish()
	return rootCmd.ExecuteContext(ctx)
}

func finish() {
	if registry != nil {
		families, err := registry.Gather()
		if err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "failed to gather metrics: %v\n", err)
		}
		writeMetricsSummary(rootCmd.ErrOrStderr(), families)
	}
	if logger != nil {
		_ = logger.Sync()
	}
	registry = nil
	metrics = nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./valyu.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "directory to look for config in (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func GetRootDir() string {
	return rootDir
}

func adapterOptions() []valyu.Option {
	return []valyu.Option{
		valyu.WithLogger(logger),
		valyu.WithMetrics(metrics),
	}
}

func newSearchAdapter(mutate func(*config.SearchConfig)) (*valyu.SearchAdapter, error) {
	sc := cfg.Search
	if mutate != nil {
		mutate(&sc)
	}
	c := *cfg
	c.Search = sc

	settings, err := c.SearchSettings()
	if err != nil {
		return nil, err
	}
	return valyu.NewSearchAdapter(settings, adapterOptions()...)
}

func newContentAdapter() (*valyu.ContentAdapter, error) {
	settings, err := cfg.ContentSettings()
	if err != nil {
		return nil, err
	}
	return valyu.NewContentAdapter(settings, adapterOptions()...)
}
