// Package rss fetches feeds and turns their items into normalized entries.
package rss

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/chamsin/digest/internal/metrics"
	"github.com/chamsin/digest/internal/news"
)

const maxWorkers = 16

type Options struct {
	PerFeedMax int
	Timeout    time.Duration
	Workers    int
	UserAgent  string
}

// Fetcher downloads feeds in parallel. A feed that fails contributes no
// entries; it never fails the whole fetch.
type Fetcher struct {
	opts    Options
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewFetcher(opts Options, m *metrics.Metrics, log *slog.Logger) *Fetcher {
	if opts.Workers <= 0 || opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if m == nil {
		m = metrics.Global
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{opts: opts, metrics: m, log: log}
}

// FetchAll returns the concatenation of every feed's first PerFeedMax valid
// items. Order across feeds follows the input list.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []news.Entry {
	if len(urls) == 0 {
		return nil
	}
	results := make([][]news.Entry, len(urls))

	g := new(errgroup.Group)
	g.SetLimit(min(f.opts.Workers, len(urls)))
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			entries, err := f.FetchOne(ctx, u)
			if err != nil {
				f.log.Warn("feed fetch failed", "url", u, "error", err)
				f.metrics.RecordFeed(false, 0)
				return nil
			}
			f.metrics.RecordFeed(true, len(entries))
			f.log.Debug("feed fetched", "url", u, "entries", len(entries))
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	var out []news.Entry
	for _, r := range results {
		out = append(out, r...)
	}
	f.log.Info("fetched raw entries", "entries", len(out), "feeds", len(urls))
	return out
}

// FetchOne retrieves and converts a single feed under its own timeout.
func (f *Fetcher) FetchOne(ctx context.Context, feedURL string) ([]news.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	parser := gofeed.NewParser()
	if f.opts.UserAgent != "" {
		parser.UserAgent = f.opts.UserAgent
	}
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}
	return Convert(feed, feedURL, f.opts.PerFeedMax), nil
}

var schemeRe = regexp.MustCompile(`^https?://(www\.)?`)

// Convert maps the first perFeedMax items of a parsed feed to entries,
// skipping items without a title or a link.
func Convert(feed *gofeed.Feed, feedURL string, perFeedMax int) []news.Entry {
	source := feed.Link
	if source == "" {
		source = feedURL
	}
	sourceName := news.NormalizeText(feed.Title)
	if sourceName == "" {
		sourceName = strings.Split(schemeRe.ReplaceAllString(source, ""), "/")[0]
	}
	hint := feed.Language
	if hint == "" && feed.DublinCoreExt != nil && len(feed.DublinCoreExt.Language) > 0 {
		hint = feed.DublinCoreExt.Language[0]
	}

	items := feed.Items
	if perFeedMax > 0 && len(items) > perFeedMax {
		items = items[:perFeedMax]
	}
	entries := make([]news.Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		title := news.NormalizeText(item.Title)
		link := news.CanonicalURL(strings.TrimSpace(item.Link))
		if title == "" || link == "" {
			continue
		}
		summary := item.Description
		if strings.TrimSpace(summary) == "" {
			summary = item.Content
		}
		entries = append(entries, news.Entry{
			Title:        title,
			URL:          link,
			Summary:      news.NormalizeText(summary),
			PublishedAt:  news.ParseTimestamp(timestampFields(item)),
			Byline:       news.NormalizeText(byline(item)),
			SourceName:   sourceName,
			SourceURL:    source,
			LanguageHint: hint,
		})
	}
	return entries
}

func timestampFields(item *gofeed.Item) news.TimestampFields {
	f := news.TimestampFields{
		Published:       item.Published,
		Updated:         item.Updated,
		PublishedParsed: item.PublishedParsed,
		UpdatedParsed:   item.UpdatedParsed,
	}
	if dc := item.DublinCoreExt; dc != nil && len(dc.Date) > 0 {
		f.Created = dc.Date[0]
	}
	return f
}

func byline(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	if dc := item.DublinCoreExt; dc != nil && len(dc.Creator) > 0 {
		return dc.Creator[0]
	}
	return ""
}
