package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for in the
// current directory and the user's home directory.
const DefaultConfigFile = ".quotegrab"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide how to react based on whether the user named
// the file explicitly.
var ErrConfigNotFound = errors.New("configuration file not found")

// Settings is the configuration-file counterpart of Config. Fields are
// pointers so that "absent" and "zero" can be told apart when merging
// over defaults. Durations are plain seconds, matching the flat numeric
// style of the original scraper's JSON config.
type Settings struct {
	RequestTimeout *int    `yaml:"request_timeout" json:"request_timeout"`
	MaxRetries     *int    `yaml:"max_retries" json:"max_retries"`
	RetryDelay     *int    `yaml:"retry_delay" json:"retry_delay"`
	Delay          *int    `yaml:"delay" json:"delay"`
	UserAgent      *string `yaml:"user_agent" json:"user_agent"`
	RespectRobots  *bool   `yaml:"respect_robots" json:"respect_robots"`
	MinQuoteLength *int    `yaml:"min_quote_length" json:"min_quote_length"`
	MaxQuoteLength *int    `yaml:"max_quote_length" json:"max_quote_length"`
	MaxPages       *int    `yaml:"max_pages" json:"max_pages"`
}

// File represents the structure of the .quotegrab configuration file.
type File struct {
	// Settings override crawl defaults.
	Settings *Settings `yaml:"settings,omitempty" json:"settings,omitempty"`

	// Sites are additional selector profiles, consulted before the
	// built-in registry.
	Sites []SiteProfile `yaml:"sites,omitempty" json:"sites,omitempty"`
}

// LoadConfigFile loads a configuration file. Files ending in .json are
// parsed as JSON; everything else is parsed as YAML. A missing file is
// reported as ErrConfigNotFound so the caller can distinguish it from a
// malformed one.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, err
		}
	}

	return &cf, nil
}

// FindConfigFile locates the configuration file:
//  1. If configPath is given, use it directly.
//  2. Look for .quotegrab in the current directory.
//  3. Look for .quotegrab in the user's home directory.
//
// Returns the path if found, or the empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges the file's contents into cfg. Only fields present in
// the file are copied; cfg.Clamp must be called afterwards to repair
// out-of-range values.
func (cf *File) Apply(cfg *Config) {
	cfg.Profiles = append(cfg.Profiles, cf.Sites...)

	s := cf.Settings
	if s == nil {
		return
	}
	if s.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*s.RequestTimeout) * time.Second
	}
	if s.MaxRetries != nil {
		cfg.MaxRetries = *s.MaxRetries
	}
	if s.RetryDelay != nil {
		cfg.RetryDelay = time.Duration(*s.RetryDelay) * time.Second
	}
	if s.Delay != nil {
		cfg.Delay = time.Duration(*s.Delay) * time.Second
	}
	if s.UserAgent != nil {
		cfg.UserAgent = *s.UserAgent
	}
	if s.RespectRobots != nil {
		cfg.RespectRobots = *s.RespectRobots
	}
	if s.MinQuoteLength != nil {
		cfg.MinQuoteLength = *s.MinQuoteLength
	}
	if s.MaxQuoteLength != nil {
		cfg.MaxQuoteLength = *s.MaxQuoteLength
	}
	if s.MaxPages != nil {
		cfg.MaxPages = *s.MaxPages
	}
}
