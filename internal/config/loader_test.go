package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTempConfig writes content to a file in a temp dir and returns
// its path.
func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestLoadConfigFile covers both supported formats and failure modes.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads YAML settings and site profiles", func(t *testing.T) {
		t.Parallel()

		path := writeTempConfig(t, ".quotegrab", `
settings:
  request_timeout: 30
  max_retries: 5
  user_agent: "custom-agent/1.0"
sites:
  - name: Example Quotes
    base_url: http://example.com
    selectors:
      container: ["div.q"]
      text: ["p.body"]
      author: ["span.by"]
      tags: ["a.t"]
      next_page: ["a.more"]
`)

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)
		cfg.Clamp()

		if cfg.RequestTimeout != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", cfg.RequestTimeout)
		}
		if cfg.MaxRetries != 5 {
			t.Errorf("expected 5 retries, got %d", cfg.MaxRetries)
		}
		if cfg.UserAgent != "custom-agent/1.0" {
			t.Errorf("expected custom user agent, got %q", cfg.UserAgent)
		}
		if len(cfg.Profiles) != 1 || cfg.Profiles[0].Name != "Example Quotes" {
			t.Errorf("expected one loaded profile, got %+v", cfg.Profiles)
		}
	})

	t.Run("loads JSON by extension", func(t *testing.T) {
		t.Parallel()

		path := writeTempConfig(t, "quotegrab.json", `{
  "settings": {"request_timeout": 20, "respect_robots": false}
}`)

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)
		cfg.Clamp()

		if cfg.RequestTimeout != 20*time.Second {
			t.Errorf("expected 20s timeout, got %v", cfg.RequestTimeout)
		}
		if cfg.RespectRobots {
			t.Error("expected robots gate disabled")
		}
	})

	t.Run("out-of-range file values are clamped", func(t *testing.T) {
		t.Parallel()

		path := writeTempConfig(t, ".quotegrab", `
settings:
  request_timeout: 600
  max_retries: 50
`)

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)
		cfg.Clamp()

		if cfg.RequestTimeout != MaxRequestTimeout {
			t.Errorf("expected clamped timeout %v, got %v", MaxRequestTimeout, cfg.RequestTimeout)
		}
		if cfg.MaxRetries != MaxMaxRetries {
			t.Errorf("expected clamped retries %d, got %d", MaxMaxRetries, cfg.MaxRetries)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed file returns an error for the caller to log", func(t *testing.T) {
		t.Parallel()

		path := writeTempConfig(t, "bad.json", `{not json`)
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFindConfigFile verifies explicit-path handling.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()

		path := writeTempConfig(t, ".quotegrab", "settings: {}\n")
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}
