package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/quotegrab/quotegrab/internal/aggregate"
	"github.com/quotegrab/quotegrab/internal/config"
	"github.com/quotegrab/quotegrab/internal/crawler"
	"github.com/quotegrab/quotegrab/internal/database"
	"github.com/quotegrab/quotegrab/internal/export"
	"github.com/quotegrab/quotegrab/internal/log"
	"github.com/quotegrab/quotegrab/internal/model"
)

// defaultSeeds are crawled when no seed URLs are given on the command
// line. They point at the public scraping sandbox: the front page plus
// its most populated tag sections.
var defaultSeeds = []string{
	"http://quotes.toscrape.com",
	"http://quotes.toscrape.com/tag/inspirational/",
	"http://quotes.toscrape.com/tag/love/",
	"http://quotes.toscrape.com/tag/life/",
	"http://quotes.toscrape.com/tag/humor/",
	"http://quotes.toscrape.com/tag/books/",
	"http://quotes.toscrape.com/tag/reading/",
	"http://quotes.toscrape.com/tag/friendship/",
	"http://quotes.toscrape.com/tag/friends/",
	"http://quotes.toscrape.com/tag/truth/",
}

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url...]",
		Short: "Crawl quote sites and export the collected quotes",
		Long: `Crawl follows each seed URL's pagination chain, extracts quote
records, validates and deduplicates them, and writes three artifacts:
a JSON file, a CSV file, and a Markdown report.

Seeds are crawled one after another, each page fetched with a
politeness delay. The crawl respects robots.txt unless --no-robots is
given, and saves the run to a local SQLite database unless --no-db is
given.

Examples:
  # Crawl the default demo site
  quotegrab crawl

  # Crawl specific seeds and name the output files
  quotegrab crawl -o myquotes http://quotes.toscrape.com

  # Slow, patient crawl with a shared dedup index across seeds
  quotegrab crawl --delay 5 --global-dedup seed1 seed2`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Politeness and retry flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultRequestTimeout,
		"Per-request timeout (clamped to 5s..60s)")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Total fetch attempts per page (clamped to 1..10)")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Base backoff delay between retry attempts (doubled each attempt)")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Pause between page fetches within one seed")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Bool("no-robots", false,
		"Skip robots.txt checks")

	// Extraction flags
	cmd.Flags().Int("min-length", config.DefaultMinQuoteLength,
		"Minimum accepted quote text length in characters")
	cmd.Flags().Int("max-length", config.DefaultMaxQuoteLength,
		"Maximum accepted quote text length in characters")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum pages per seed (0 = unlimited)")
	cmd.Flags().Bool("global-dedup", false,
		"Share one dedup index across all seeds instead of one per seed")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .quotegrab in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputBase,
		"Base path for export files (.json, .csv, and .md are appended)")
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Skip saving the run to the database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// Cancellation drains the crawl: pages already fetched are kept
	// and exported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current page...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file. Precedence: defaults, then config
// file, then flags the user changed.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the config file first so explicit flags can override it.
	// An explicitly named file must exist; the default search is
	// allowed to come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Seeds = args
	if len(cfg.Seeds) == 0 {
		cfg.Seeds = defaultSeeds
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Clamp()
	return cfg, nil
}

// applyFlags copies flag values the user set into cfg. Flags left at
// their defaults do not override config-file values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("timeout") {
		if cfg.RequestTimeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("retries") {
		if cfg.MaxRetries, err = flags.GetInt("retries"); err != nil {
			return err
		}
	}
	if flags.Changed("retry-delay") {
		if cfg.RetryDelay, err = flags.GetDuration("retry-delay"); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("no-robots") {
		noRobots, err := flags.GetBool("no-robots")
		if err != nil {
			return err
		}
		cfg.RespectRobots = !noRobots
	}
	if flags.Changed("min-length") {
		if cfg.MinQuoteLength, err = flags.GetInt("min-length"); err != nil {
			return err
		}
	}
	if flags.Changed("max-length") {
		if cfg.MaxQuoteLength, err = flags.GetInt("max-length"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("global-dedup") {
		if cfg.GlobalDedup, err = flags.GetBool("global-dedup"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputBase, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("no-db") {
		noDB, err := flags.GetBool("no-db")
		if err != nil {
			return err
		}
		cfg.SaveToDB = !noDB
	}

	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its
// parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl performs the crawl and writes all artifacts.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := &http.Client{Timeout: cfg.RequestTimeout}

	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxRetries(cfg.MaxRetries),
		crawler.WithRetryDelay(cfg.RetryDelay),
	)

	var robots aggregate.RobotsChecker
	if cfg.RespectRobots {
		robots = crawler.NewRobotsGate(client, cfg.UserAgent, logger)
	}

	opts := []aggregate.Option{aggregate.WithLogger(logger)}

	// Progress bar on stderr unless verbose logs would interleave
	// with it.
	var bar *progressbar.ProgressBar
	if !cfg.Verbose {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("crawling"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("pages"),
		)
		opts = append(opts,
			aggregate.WithSeedHook(func(seed string) {
				bar.Describe("crawling " + seed)
			}),
			aggregate.WithPageHook(func(string) {
				_ = bar.Add(1)
			}),
		)
	}

	aggregator := aggregate.New(cfg, fetcher, robots, opts...)

	logger.Info("starting crawl",
		"seeds", len(cfg.Seeds),
		"delay", cfg.Delay,
		"respect_robots", cfg.RespectRobots,
	)

	dataset := aggregator.Run(ctx, cfg.Seeds)

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if dataset.Empty() {
		logger.Warn("no records found; check the seed URLs and selector configuration")
	}

	info := export.NewRunInfo(strings.Join(cfg.Seeds, ", "), getVersion(), "")

	if err := writeArtifacts(cfg, info, dataset, logger); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg, info, dataset); err != nil {
			// Export files are already on disk; losing history is not
			// worth failing the run.
			logger.Error("failed to save run to database", "error", err)
		}
	}

	logger.Info("crawl finished",
		"quotes", len(dataset.Quotes),
		"pages", dataset.Stats.PagesFetched,
		"failed_fetches", dataset.Stats.FailedFetches,
		"seeds_skipped", dataset.Stats.SeedsSkipped,
		"elapsed", dataset.Stats.Elapsed(time.Now()).Round(time.Second),
	)
	return nil
}

// writeArtifacts writes the JSON, CSV, and Markdown export files.
func writeArtifacts(cfg *config.Config, info export.RunInfo, dataset *model.Dataset, logger *slog.Logger) error {
	artifacts := []struct {
		path  string
		build func(f *os.File) export.Writer
	}{
		{cfg.OutputBase + ".json", func(f *os.File) export.Writer {
			return export.NewJSONWriter(f, info, export.WithPrettyPrint())
		}},
		{cfg.OutputBase + ".csv", func(f *os.File) export.Writer {
			return export.NewCSVWriter(f)
		}},
		{cfg.OutputBase + ".md", func(f *os.File) export.Writer {
			return export.NewMarkdownWriter(f, info)
		}},
	}

	if dir := filepath.Dir(cfg.OutputBase); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var errs []error
	for _, a := range artifacts {
		f, err := os.Create(a.path) //nolint:gosec // Output path is user-chosen by design
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create %s: %w", a.path, err))
			continue
		}

		n, werr := a.build(f).Write(dataset)
		cerr := f.Close()
		if werr != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", a.path, werr))
			continue
		}
		if cerr != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", a.path, cerr))
			continue
		}

		logger.Info("wrote export file", "path", a.path, "bytes", n)
	}
	return errors.Join(errs...)
}

// saveRun persists the run to the SQLite database.
func saveRun(ctx context.Context, cfg *config.Config, info export.RunInfo, dataset *model.Dataset) error {
	dbDir := cfg.DBDir
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	qdb, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer qdb.Close() //nolint:errcheck // Close error after a successful save is harmless

	// A cancelled run should still be saved, so don't reuse the
	// crawl context here.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	return qdb.SaveRun(saveCtx, info.RunID, info.Source, dataset)
}
