package news

import (
	"log/slog"
	"time"

	"github.com/chamsin/digest/internal/metrics"
)

// PipelineConfig gathers the knobs of every stage after fetching.
type PipelineConfig struct {
	LanguageAllowlist []string
	BlockKeywords     []string
	Scoring           ScorerConfig
	Dedupe            DedupeMode
	WindowHours       float64
	OverallMax        int
	Compress          CompressConfig
}

// Pipeline runs filter, enrich, score, dedupe, cap and compress over the
// fetched entries. It keeps no state between calls.
type Pipeline struct {
	cfg      PipelineConfig
	enricher *Enricher
	scorer   *Scorer
	dedupe   *Deduplicator
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewPipeline wires the stages. now, m and log may be nil.
func NewPipeline(cfg PipelineConfig, enricher *Enricher, now func() time.Time, m *metrics.Metrics, log *slog.Logger) *Pipeline {
	if m == nil {
		m = metrics.Global
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		enricher: enricher,
		scorer:   NewScorer(cfg.Scoring, now),
		dedupe:   NewDeduplicator(cfg.Dedupe, cfg.WindowHours, now),
		metrics:  m,
		log:      log,
	}
}

func (p *Pipeline) Process(raw []Entry) []Entry {
	items := p.enricher.FilterLanguage(raw, p.cfg.LanguageAllowlist)
	p.metrics.AddLanguageFiltered(len(raw) - len(items))
	p.log.Info("language filter", "in", len(raw), "out", len(items), "allow", p.cfg.LanguageAllowlist)

	before := len(items)
	items = FilterBlocked(items, p.cfg.BlockKeywords)
	p.metrics.AddBlocked(before - len(items))
	p.log.Info("block filter", "in", before, "out", len(items))

	items = p.enricher.Enrich(items)
	items = p.scorer.ScoreAll(items)

	before = len(items)
	items = p.dedupe.Dedupe(items)
	p.metrics.AddDuplicatesFiltered(before - len(items))
	p.log.Info("dedupe", "in", before, "out", len(items), "mode", p.cfg.Dedupe.String(), "window_hours", p.cfg.WindowHours)

	items = TopN(items, p.cfg.OverallMax)

	before = len(items)
	items = Compress(items, p.cfg.Compress)
	p.metrics.SetEntriesKept(len(items))
	p.log.Info("compress", "in", before, "out", len(items), "target", p.cfg.Compress.Target, "method", p.cfg.Compress.Method)

	return items
}
