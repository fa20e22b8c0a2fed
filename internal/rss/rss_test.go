package rss

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamsin/digest/internal/metrics"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>Levant Wire</title>
  <link>https://www.levantwire.example/</link>
  <language>en-GB</language>
  <item>
    <title>  Strike near &lt;b&gt;Beirut&lt;/b&gt; </title>
    <link>https://levantwire.example/a?utm_source=rss&amp;id=1</link>
    <description>&lt;p&gt;Residents   report   explosions.&lt;/p&gt;</description>
    <pubDate>Mon, 02 Jun 2025 10:00:00 +0000</pubDate>
    <dc:creator>Jane Roe</dc:creator>
  </item>
  <item>
    <title></title>
    <link>https://levantwire.example/no-title</link>
  </item>
  <item>
    <title>No link here</title>
  </item>
  <item>
    <title>Undated dispatch</title>
    <link>https://levantwire.example/b</link>
  </item>
  <item>
    <title>Third valid item</title>
    <link>https://levantwire.example/c</link>
  </item>
</channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title></title>
  <entry>
    <title>Talks in Doha</title>
    <link href="https://gulfdesk.example/talks"/>
    <summary>Negotiators meet.</summary>
    <updated>2025-06-01T08:00:00Z</updated>
    <author><name>Desk</name></author>
  </entry>
</feed>`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, sampleRSS)
	})
	mux.HandleFunc("/atom", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		io.WriteString(w, sampleAtom)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "this is not a feed")
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOneNormalizesItems(t *testing.T) {
	srv := newServer(t)
	f := NewFetcher(Options{PerFeedMax: 20, Timeout: time.Second}, metrics.New(), quietLogger())

	entries, err := f.FetchOne(context.Background(), srv.URL+"/rss")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	first := entries[0]
	assert.Equal(t, "Strike near Beirut", first.Title)
	assert.Equal(t, "https://levantwire.example/a?id=1", first.URL)
	assert.Equal(t, "Residents report explosions.", first.Summary)
	assert.Equal(t, "Jane Roe", first.Byline)
	assert.Equal(t, "Levant Wire", first.SourceName)
	assert.Equal(t, "https://www.levantwire.example/", first.SourceURL)
	assert.Equal(t, "en-GB", first.LanguageHint)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), *first.PublishedAt)

	assert.Equal(t, "Undated dispatch", entries[1].Title)
	assert.Nil(t, entries[1].PublishedAt)
}

func TestFetchOnePerFeedCap(t *testing.T) {
	srv := newServer(t)
	f := NewFetcher(Options{PerFeedMax: 2, Timeout: time.Second}, metrics.New(), quietLogger())

	entries, err := f.FetchOne(context.Background(), srv.URL+"/rss")
	require.NoError(t, err)
	// the cap applies to raw items, before invalid ones are dropped
	require.Len(t, entries, 1)
	assert.Equal(t, "Strike near Beirut", entries[0].Title)
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	srv := newServer(t)
	m := metrics.New()
	f := NewFetcher(Options{PerFeedMax: 20, Timeout: 200 * time.Millisecond, Workers: 2}, m, quietLogger())

	entries := f.FetchAll(context.Background(), []string{
		srv.URL + "/broken",
		srv.URL + "/rss",
		srv.URL + "/garbage",
		srv.URL + "/slow",
		srv.URL + "/atom",
		"http://127.0.0.1:1/unreachable",
	})

	require.Len(t, entries, 4)
	assert.Equal(t, "Strike near Beirut", entries[0].Title)
	atom := entries[3]
	assert.Equal(t, "Talks in Doha", atom.Title)
	assert.Equal(t, "Negotiators meet.", atom.Summary)
	assert.Equal(t, "Desk", atom.Byline)
	assert.True(t, strings.HasPrefix(atom.SourceURL, srv.URL), atom.SourceURL)
	assert.Equal(t, strings.TrimPrefix(srv.URL, "http://"), atom.SourceName)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["feeds_fetched"])
	assert.Equal(t, int64(4), stats["feeds_failed"])
	assert.Equal(t, int64(4), stats["entries_fetched"])
}

func TestFetchAllEmpty(t *testing.T) {
	f := NewFetcher(Options{}, metrics.New(), quietLogger())
	assert.Empty(t, f.FetchAll(context.Background(), nil))
}

func TestConvertFallsBackToContentAndDublinCore(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(`<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel><title>Feed</title>
<item>
  <title>Body only</title>
  <link>https://x.example/1</link>
  <content:encoded><![CDATA[<p>Full &amp; rich</p>]]></content:encoded>
  <dc:date>2025-05-30</dc:date>
</item>
</channel></rss>`)
	require.NoError(t, err)

	entries := Convert(feed, "https://feeds.example/rss", 10)
	require.Len(t, entries, 1)
	assert.Equal(t, "Full & rich", entries[0].Summary)
	assert.Equal(t, "https://feeds.example/rss", entries[0].SourceURL)
	require.NotNil(t, entries[0].PublishedAt)
	assert.Equal(t, time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), *entries[0].PublishedAt)
}
