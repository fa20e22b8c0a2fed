// Package config loads the pipeline configuration from the feeds YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath   = "config/feeds.yml"
	configPathEnv = "CHAMSIN_CONFIG"
	geminiKeyEnv  = "GEMINI_API_KEY"
)

// ErrNoFeeds is returned by Validate when the feed list is empty.
var ErrNoFeeds = errors.New("no feeds configured")

type Config struct {
	Feeds             []string           `yaml:"feeds"`
	PerFeedMax        int                `yaml:"per_feed_max"`
	OverallMax        int                `yaml:"overall_max"`
	LanguageAllowlist []string           `yaml:"language_allowlist"`
	BlockKeywords     []string           `yaml:"block_keywords"`
	BoostKeywords     []string           `yaml:"boost_keywords"`
	SourcePriorities  map[string]float64 `yaml:"source_priorities"`
	Deduplicate       DedupeConfig       `yaml:"deduplicate"`
	Compress          CompressConfig     `yaml:"compress"`
	Scoring           ScoringConfig      `yaml:"scoring"`
	Output            OutputConfig       `yaml:"output"`
	Fetch             FetchConfig        `yaml:"fetch"`
	Digest            DigestConfig       `yaml:"digest"`

	// GeminiAPIKey is read from the environment, never from the file.
	GeminiAPIKey string `yaml:"-"`
}

type DedupeConfig struct {
	Mode        string  `yaml:"mode"`
	WindowHours float64 `yaml:"window_hours"`
}

type CompressConfig struct {
	Target        int      `yaml:"target"`
	Method        string   `yaml:"method"`
	DiversityAxes []string `yaml:"diversity_axes"`
}

type ScoringConfig struct {
	FreshnessHalfLifeHours float64 `yaml:"freshness_half_life_hours"`
}

type OutputConfig struct {
	Path          string   `yaml:"path"`
	IncludeFields []string `yaml:"include_fields"`
}

type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Workers        int    `yaml:"workers"`
	UserAgent      string `yaml:"user_agent"`
}

// Timeout is the per-feed fetch timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

type DigestConfig struct {
	Page          string `yaml:"page"`
	Selector      string `yaml:"selector"`
	Model         string `yaml:"model"`
	MaxItems      int    `yaml:"max_items"`
	RetryAttempts int    `yaml:"retry_attempts"`
}

// Default returns a Config populated with the values used when a key is
// absent from the file.
func Default() *Config {
	return &Config{
		PerFeedMax:        20,
		OverallMax:        120,
		LanguageAllowlist: []string{"fr", "en"},
		SourcePriorities:  map[string]float64{},
		Deduplicate: DedupeConfig{
			Mode:        "title+url+canonical",
			WindowHours: 48,
		},
		Compress: CompressConfig{
			Target:        40,
			Method:        "salience+diversity",
			DiversityAxes: []string{"country", "theme", "source"},
		},
		Scoring: ScoringConfig{FreshnessHalfLifeHours: 18},
		Output: OutputConfig{
			Path: "scripts/news_cache.json",
			IncludeFields: []string{
				"title", "summary", "source", "published_at", "byline",
				"country_guess", "theme", "entities", "url",
			},
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 20,
			Workers:        16,
			UserAgent:      "chamsin-digest/1.0",
		},
		Digest: DigestConfig{
			Page:          "index.html",
			Selector:      "#live-digest",
			Model:         "gemini-1.5-flash",
			MaxItems:      40,
			RetryAttempts: 3,
		},
	}
}

// Path resolves the config file location: explicit flag, then env, then default.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	return getEnvOrDefault(configPathEnv, DefaultPath)
}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if cfg.SourcePriorities == nil {
		cfg.SourcePriorities = map[string]float64{}
	}
	cfg.GeminiAPIKey = os.Getenv(geminiKeyEnv)
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return ErrNoFeeds
	}
	if c.PerFeedMax <= 0 {
		return fmt.Errorf("per_feed_max must be positive, got %d", c.PerFeedMax)
	}
	if c.OverallMax <= 0 {
		return fmt.Errorf("overall_max must be positive, got %d", c.OverallMax)
	}
	if c.Compress.Target <= 0 {
		return fmt.Errorf("compress.target must be positive, got %d", c.Compress.Target)
	}
	if c.Scoring.FreshnessHalfLifeHours <= 0 {
		return fmt.Errorf("scoring.freshness_half_life_hours must be positive")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.Workers <= 0 {
		return fmt.Errorf("fetch.workers must be positive")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
