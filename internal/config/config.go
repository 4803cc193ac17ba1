package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// API endpoint
	BaseURL string `json:"base_url"`

	// Fetching
	StoryLimit         int     `json:"story_limit"`
	Concurrency        int     `json:"concurrency"`
	RequestTimeoutSecs int     `json:"request_timeout_secs"`
	RatePerSecond      float64 `json:"rate_per_second"`

	// Comment streaming
	StreamBuffer int `json:"stream_buffer"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ShowScores   bool `json:"show_scores"`
	CommentWidth int  `json:"comment_width"` // 0 = follow terminal width
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://hacker-news.firebaseio.com/v0",
		StoryLimit:         20,
		Concurrency:        8,
		RequestTimeoutSecs: 15,
		RatePerSecond:      20, // the API is unauthenticated; stay polite
		StreamBuffer:       64,
		UI: UIConfig{
			ShowScores: true,
		},
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hn", "config.json")
}

// Load reads config from disk, or returns defaults. A missing or
// unreadable file is not an error; the app must start regardless.
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		// A corrupt file falls back to defaults but must not drop
		// env overrides.
		cfg = DefaultConfig()
	}
	cfg.normalize()
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("HN_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("HN_STORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.StoryLimit = n
		}
	}
	if v := os.Getenv("HN_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency = n
		}
	}
}

// normalize clamps user-edited values back into a usable range.
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.StoryLimit <= 0 {
		c.StoryLimit = d.StoryLimit
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.StreamBuffer <= 0 {
		c.StreamBuffer = d.StreamBuffer
	}
	if c.RatePerSecond < 0 {
		c.RatePerSecond = 0
	}
}
