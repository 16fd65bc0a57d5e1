package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior expected of a
// polite scraper on small quote sites: short timeouts, few retries, and
// a one-second pause between page fetches.
const (
	// DefaultRequestTimeout is the per-request timeout. Quote sites are
	// small static pages; 15 seconds is generous while still failing
	// fast on dead hosts.
	DefaultRequestTimeout = 15 * time.Second

	// MinRequestTimeout and MaxRequestTimeout bound the configurable
	// request timeout. Values outside this range are clamped, not
	// rejected, so a bad config file cannot stop a run.
	MinRequestTimeout = 5 * time.Second
	MaxRequestTimeout = 60 * time.Second

	// DefaultMaxRetries is the total number of fetch attempts per page,
	// including the first. Three attempts absorbs transient hiccups
	// without hammering a struggling server.
	DefaultMaxRetries = 3

	// MinMaxRetries and MaxMaxRetries bound the retry budget.
	MinMaxRetries = 1
	MaxMaxRetries = 10

	// DefaultRetryDelay is the base backoff delay. Attempt i (0-indexed)
	// waits DefaultRetryDelay * 2^i before retrying.
	DefaultRetryDelay = 2 * time.Second

	// DefaultDelay is the politeness pause between consecutive page
	// fetches within one seed's traversal.
	DefaultDelay = 1 * time.Second

	// DefaultUserAgent identifies quotegrab in HTTP requests. A
	// descriptive User-Agent lets site operators identify scraper
	// traffic in their logs.
	DefaultUserAgent = "quotegrab/1.0 (+https://github.com/quotegrab/quotegrab)"

	// DefaultMinQuoteLength and DefaultMaxQuoteLength bound accepted
	// quote text length in characters.
	DefaultMinQuoteLength = 10
	DefaultMaxQuoteLength = 1000

	// DefaultMaxPages caps pages fetched per seed. The visited set
	// already breaks pagination cycles; this cap additionally stops
	// sites that generate fresh "next" URLs forever. 0 means unlimited.
	DefaultMaxPages = 200

	// DefaultOutputBase is the base path for export artifacts. The
	// exporters append .json, .csv, and .md.
	DefaultOutputBase = "quotes"

	// AppName is used for XDG directory paths and report headers.
	AppName = "quotegrab"
)

// Config holds all options for a crawl run. It is populated from
// defaults, then the optional config file, then CLI flags, and passed
// through the application by dependency injection rather than global
// state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is manageable, and nesting would add indirection
// without benefit at this size.
type Config struct {
	// Seeds are the starting URLs, each traversed independently.
	Seeds []string

	// RequestTimeout is the per-request HTTP timeout,
	// clamped to [MinRequestTimeout, MaxRequestTimeout].
	RequestTimeout time.Duration

	// MaxRetries is the total number of attempts per fetch (including
	// the first), clamped to [MinMaxRetries, MaxMaxRetries].
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff between
	// retry attempts.
	RetryDelay time.Duration

	// Delay is the politeness pause between consecutive page fetches
	// within one seed. Zero disables the pause.
	Delay time.Duration

	// UserAgent is sent with every request, including the robots.txt
	// fetch, and is the agent name matched against robots.txt groups.
	UserAgent string

	// RespectRobots enables the robots.txt gate. When the policy file
	// cannot be fetched or parsed the gate is permissive.
	RespectRobots bool

	// MinQuoteLength and MaxQuoteLength bound accepted quote text
	// length in characters.
	MinQuoteLength int
	MaxQuoteLength int

	// MaxPages caps pages fetched per seed. 0 means unlimited.
	MaxPages int

	// GlobalDedup shares one fingerprint index across all seeds. The
	// default (false) resets the index per seed, so the same quote
	// reached via two different tag pages appears twice in the final
	// dataset.
	GlobalDedup bool

	// OutputBase is the base path for the .json/.csv/.md artifacts.
	OutputBase string

	// ConfigFilePath is an explicit config file path. Empty means
	// search the current directory and then the home directory.
	ConfigFilePath string

	// Profiles holds selector profiles loaded from the config file,
	// merged over the built-in registry.
	Profiles []SiteProfile

	// DBDir is the directory holding the SQLite database. Empty means
	// the XDG data directory.
	DBDir string

	// SaveToDB persists the run's records to the database.
	SaveToDB bool

	// Verbose switches logging from warnings-only to debug.
	Verbose bool
}

// NewConfig returns a Config populated with defaults.
//
// Design decision: a constructor rather than relying on zero values,
// because most defaults are non-zero and the constructor doubles as
// documentation of what they are.
func NewConfig() *Config {
	return &Config{
		RequestTimeout: DefaultRequestTimeout,
		MaxRetries:     DefaultMaxRetries,
		RetryDelay:     DefaultRetryDelay,
		Delay:          DefaultDelay,
		UserAgent:      DefaultUserAgent,
		RespectRobots:  true,
		MinQuoteLength: DefaultMinQuoteLength,
		MaxQuoteLength: DefaultMaxQuoteLength,
		MaxPages:       DefaultMaxPages,
		OutputBase:     DefaultOutputBase,
		SaveToDB:       true,
	}
}

// Clamp forces out-of-range values back into their documented bounds.
// It is applied after every configuration source so that neither a
// config file nor a CLI flag can produce an abusive or broken setting.
func (c *Config) Clamp() {
	c.RequestTimeout = clampDuration(c.RequestTimeout, MinRequestTimeout, MaxRequestTimeout)
	c.MaxRetries = clampInt(c.MaxRetries, MinMaxRetries, MaxMaxRetries)

	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Delay < 0 {
		c.Delay = 0
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MinQuoteLength < 1 {
		c.MinQuoteLength = DefaultMinQuoteLength
	}
	if c.MaxQuoteLength < c.MinQuoteLength {
		c.MaxQuoteLength = DefaultMaxQuoteLength
	}
	if c.MaxPages < 0 {
		c.MaxPages = 0
	}
}

// Validate checks invariants that clamping cannot repair.
// It returns the first problem found; fixing one error often makes
// later ones irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.OutputBase == "" {
		return ErrNoOutput
	}
	return nil
}

// XDGDataDir returns the XDG data directory for quotegrab.
// On Linux: ~/.local/share/quotegrab.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for quotegrab.
// On Linux: ~/.config/quotegrab.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
