// Package app wires configuration, fetching, the processing pipeline, the
// artifact and the digest step into runnable commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chamsin/digest/internal/config"
	"github.com/chamsin/digest/internal/gemini"
	"github.com/chamsin/digest/internal/metrics"
	"github.com/chamsin/digest/internal/news"
	"github.com/chamsin/digest/internal/page"
	"github.com/chamsin/digest/internal/retry"
	"github.com/chamsin/digest/internal/rss"
	"github.com/chamsin/digest/internal/storage"
)

// ErrMissingAPIKey is returned by NewCommentator when GEMINI_API_KEY is empty.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Commentator turns a list of headlines into an HTML fragment.
type Commentator interface {
	Commentary(ctx context.Context, items []gemini.Item) (string, error)
}

type App struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	log     *slog.Logger

	// Overridable in tests.
	now        func() time.Time
	detector   news.LanguageDetector
	retryDelay time.Duration
}

func New(cfg *config.Config, m *metrics.Metrics, log *slog.Logger) *App {
	if m == nil {
		m = metrics.Global
	}
	if log == nil {
		log = slog.Default()
	}
	return &App{
		cfg:        cfg,
		metrics:    m,
		log:        log,
		now:        time.Now,
		detector:   news.NewLanguageDetector(),
		retryDelay: 2 * time.Second,
	}
}

// NewCommentator builds the Gemini client for the digest step.
func NewCommentator(ctx context.Context, cfg *config.Config) (*gemini.Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Digest.Model)
}

// Fetch runs the whole collection pipeline and replaces the artifact.
func (a *App) Fetch(ctx context.Context) ([]*news.Row, error) {
	start := time.Now()

	fetcher := rss.NewFetcher(rss.Options{
		PerFeedMax: a.cfg.PerFeedMax,
		Timeout:    a.cfg.Fetch.Timeout(),
		Workers:    a.cfg.Fetch.Workers,
		UserAgent:  a.cfg.Fetch.UserAgent,
	}, a.metrics, a.log)

	raw := fetcher.FetchAll(ctx, a.cfg.Feeds)

	enricher, err := news.NewEnricher(news.DefaultTables(), a.detector)
	if err != nil {
		return nil, fmt.Errorf("failed to build enricher: %w", err)
	}
	items := news.NewPipeline(a.pipelineConfig(), enricher, a.now, a.metrics, a.log).Process(raw)
	rows := news.Project(items, a.cfg.Output.IncludeFields)

	if err := storage.WriteArtifact(a.cfg.Output.Path, rows); err != nil {
		a.metrics.SetError(err.Error())
		return nil, err
	}

	a.metrics.RecordProcessingTime(time.Since(start))
	a.metrics.SetLastRun()
	a.log.Info("collected entries", "count", len(rows), "path", a.cfg.Output.Path)
	return rows, nil
}

func (a *App) pipelineConfig() news.PipelineConfig {
	return news.PipelineConfig{
		LanguageAllowlist: a.cfg.LanguageAllowlist,
		BlockKeywords:     a.cfg.BlockKeywords,
		Scoring: news.ScorerConfig{
			HalfLifeHours:    a.cfg.Scoring.FreshnessHalfLifeHours,
			SourcePriorities: a.cfg.SourcePriorities,
			BoostKeywords:    a.cfg.BoostKeywords,
		},
		Dedupe:      news.ParseDedupeMode(a.cfg.Deduplicate.Mode),
		WindowHours: a.cfg.Deduplicate.WindowHours,
		OverallMax:  a.cfg.OverallMax,
		Compress: news.CompressConfig{
			Target: a.cfg.Compress.Target,
			Method: a.cfg.Compress.Method,
			Axes:   a.cfg.Compress.DiversityAxes,
		},
	}
}

// Digest reads the artifact, asks c for commentary and injects it into the
// configured page. An empty artifact leaves the page untouched.
func (a *App) Digest(ctx context.Context, c Commentator) error {
	rows, err := storage.LoadArtifact(a.cfg.Output.Path)
	if err != nil {
		return err
	}
	items := DigestItems(rows, a.cfg.Digest.MaxItems)
	if len(items) == 0 {
		a.log.Warn("artifact is empty, skipping digest", "path", a.cfg.Output.Path)
		return nil
	}

	var fragment string
	policy := retry.Policy{
		MaxAttempts: a.cfg.Digest.RetryAttempts,
		Delay:       a.retryDelay,
		Backoff:     true,
		Logger:      a.log,
	}
	err = retry.Do(ctx, policy, func(ctx context.Context) error {
		html, err := c.Commentary(ctx, items)
		a.metrics.RecordCommentary(err)
		if err != nil {
			return err
		}
		fragment = html
		return nil
	})
	if err != nil {
		a.metrics.SetError(err.Error())
		return fmt.Errorf("commentary: %w", err)
	}

	if err := page.Inject(a.cfg.Digest.Page, a.cfg.Digest.Selector, fragment, a.now()); err != nil {
		a.metrics.SetError(err.Error())
		return err
	}
	a.log.Info("digest injected", "items", len(items), "page", a.cfg.Digest.Page, "selector", a.cfg.Digest.Selector)
	return nil
}

// DigestItems converts artifact rows into prompt items, keeping at most limit.
func DigestItems(rows []map[string]any, limit int) []gemini.Item {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]gemini.Item, 0, len(rows))
	for _, row := range rows {
		title := stringField(row, "title")
		if title == "" {
			continue
		}
		country := stringField(row, "country_guess")
		if country == "" {
			country = stringField(row, "country")
		}
		items = append(items, gemini.Item{
			Title:   title,
			Summary: stringField(row, "summary"),
			Country: country,
		})
	}
	return items
}

func stringField(row map[string]any, key string) string {
	s, _ := row[key].(string)
	return s
}

// LogStats writes the run counters at info level.
func (a *App) LogStats() {
	a.log.Info("run stats", a.metrics.Attrs()...)
}
