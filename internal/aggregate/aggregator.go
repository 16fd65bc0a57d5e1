package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/quotegrab/quotegrab/internal/config"
	"github.com/quotegrab/quotegrab/internal/crawler"
	"github.com/quotegrab/quotegrab/internal/extract"
	"github.com/quotegrab/quotegrab/internal/model"
)

// seedPause is the fixed pause between consecutive seeds, independent
// of the per-page politeness delay.
const seedPause = 2 * time.Second

// RobotsChecker answers whether a seed may be crawled. Satisfied by
// crawler.RobotsGate.
type RobotsChecker interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Aggregator crawls a list of seed URLs sequentially and accumulates
// their quotes into one dataset.
type Aggregator struct {
	cfg     *config.Config
	fetcher crawler.Fetcher
	robots  RobotsChecker
	logger  *slog.Logger

	// pause is the wait between seeds, shortened in tests.
	pause time.Duration

	// now is the run-clock source, injectable for tests.
	now func() time.Time

	// seedHook, when set, is called before each seed is crawled.
	seedHook func(seedURL string)

	// pageHook is forwarded to each walker for progress reporting.
	pageHook func(pageURL string)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger for run-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithSeedPause overrides the pause between seeds.
func WithSeedPause(d time.Duration) Option {
	return func(a *Aggregator) {
		a.pause = d
	}
}

// WithClock replaces the run-clock source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithSeedHook registers a callback invoked before each seed.
func WithSeedHook(hook func(seedURL string)) Option {
	return func(a *Aggregator) {
		a.seedHook = hook
	}
}

// WithPageHook registers a callback invoked after each fetched page.
func WithPageHook(hook func(pageURL string)) Option {
	return func(a *Aggregator) {
		a.pageHook = hook
	}
}

// New creates an Aggregator. The robots checker may be nil when the
// configuration disables robots.txt checks.
func New(cfg *config.Config, fetcher crawler.Fetcher, robots RobotsChecker, opts ...Option) *Aggregator {
	a := &Aggregator{
		cfg:     cfg,
		fetcher: fetcher,
		robots:  robots,
		logger:  slog.Default(),
		pause:   seedPause,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run crawls every seed in order and returns the merged dataset. It
// never returns an error: a seed that fails is logged and skipped, and
// cancellation ends the run early with whatever was collected.
//
// Design decision: One deduper per seed by default because:
//  1. The same quote on two different sites is two legitimate records
//  2. A fresh index per seed keeps one seed's junk from shadowing
//     another seed's data
//  3. Users who want run-wide uniqueness opt in via GlobalDedup, which
//     shares a single index across all walkers
func (a *Aggregator) Run(ctx context.Context, seeds []string) *model.Dataset {
	dataset := model.NewDataset()
	dataset.Stats.StartedAt = a.now()

	var shared *extract.Deduper
	if a.cfg.GlobalDedup {
		shared = extract.NewDeduper()
	}

	for i, seed := range seeds {
		if ctx.Err() != nil {
			a.logger.Info("run cancelled", "seeds_done", i, "seeds_total", len(seeds))
			break
		}

		if i > 0 && a.pause > 0 {
			select {
			case <-ctx.Done():
				return dataset
			case <-time.After(a.pause):
			}
		}

		if a.seedHook != nil {
			a.seedHook(seed)
		}

		a.crawlSeed(ctx, seed, shared, dataset)
	}

	return dataset
}

// crawlSeed runs one seed end to end and merges its outcome into the
// dataset. Failures are contained here.
func (a *Aggregator) crawlSeed(ctx context.Context, seed string, shared *extract.Deduper, dataset *model.Dataset) {
	if a.cfg.RespectRobots && a.robots != nil && !a.robots.Allowed(ctx, seed) {
		a.logger.Info("seed disallowed by robots.txt, skipping", "seed", seed)
		dataset.Stats.SeedsSkipped++
		return
	}

	selectors, profile := config.ResolveSelectors(seed, a.cfg.Profiles)
	if profile != "" {
		a.logger.Debug("using site profile", "seed", seed, "profile", profile)
	} else {
		a.logger.Debug("no site profile matched, using fallback selectors", "seed", seed)
	}

	deduper := shared
	if deduper == nil {
		deduper = extract.NewDeduper()
	}

	extractor := extract.NewExtractor(selectors,
		a.cfg.MinQuoteLength, a.cfg.MaxQuoteLength,
		extract.WithLogger(a.logger),
	)

	walkerOpts := []crawler.WalkerOption{
		crawler.WithWalkDelay(a.cfg.Delay),
		crawler.WithWalkMaxPages(a.cfg.MaxPages),
		crawler.WithWalkLogger(a.logger),
	}
	if a.pageHook != nil {
		walkerOpts = append(walkerOpts, crawler.WithPageHook(a.pageHook))
	}
	walker := crawler.NewWalker(a.fetcher, extractor, deduper, walkerOpts...)

	dataset.Stats.SeedsCrawled++

	result, err := walker.Walk(ctx, seed)
	if err != nil {
		// A seed that cannot even start never aborts the run.
		a.logger.Error("seed failed, continuing with remaining seeds", "seed", seed, "error", err)
		return
	}

	dataset.Append(result.Quotes...)
	dataset.Stats.Merge(result.Stats)

	a.logger.Info("seed crawled",
		"seed", seed,
		"pages", result.Stats.PagesFetched,
		"accepted", result.Stats.QuotesAccepted,
		"failed_fetches", result.Stats.FailedFetches,
	)
}
