// Package main provides the entry point for the job schema collector.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-schema-collector/internal/config"
	"github.com/jonathan/job-schema-collector/internal/extraction"
	"github.com/jonathan/job-schema-collector/internal/fetch"
	"github.com/jonathan/job-schema-collector/internal/ingestion"
	"github.com/jonathan/job-schema-collector/internal/llm"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "job_schema",
	Short: "AI Job Schema Collector",
	Long:  "Job Schema Collector reads a job advert from a file, pasted text or a URL, extracts a fixed set of fields with an LLM and walks you through filling in whatever it missed.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// loadConfig merges the optional config file, defaults and environment.
func loadConfig() (config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		if err := fileCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = cfg.FromEnv()
	cfg.Verbose = cfg.Verbose || verbose
	return cfg, nil
}

// newAcquirer builds the source acquirer from cfg.
func newAcquirer(cfg config.Config) *ingestion.Acquirer {
	opts := fetch.DefaultOptions()
	opts.Timeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	opts.Verbose = cfg.Verbose
	return ingestion.NewAcquirer(opts, cfg.UseBrowser)
}

// newExtractor builds the extractor. Without an API key it returns an
// extractor whose calls fail, so the rest of the workflow still runs.
func newExtractor(ctx context.Context, cfg config.Config) (*extraction.Extractor, func(), error) {
	if cfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("No LLM API key found; extraction calls will fail until one is set")
		return extraction.New(nil), func() {}, nil
	}

	llmCfg := llm.ConfigFor(llm.ParseProvider(cfg.Provider))
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Debug().Err(err).Msg("Failed to close LLM client")
		}
	}
	return extraction.New(client), closeFn, nil
}
