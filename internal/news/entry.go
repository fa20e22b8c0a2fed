// Package news holds the article record and the stateless stages that turn
// raw feed items into a scored, deduplicated and diversified digest.
package news

import (
	"regexp"
	"strings"
	"time"
)

// Entry is one article flowing through the pipeline.
type Entry struct {
	Title       string
	URL         string
	Summary     string
	PublishedAt *time.Time // nil when the feed gave no usable date
	Byline      string

	SourceName   string
	SourceURL    string
	LanguageHint string
	Language     string

	Country  string
	Theme    string
	Entities []string

	Score float64
}

// Text is the title and summary joined, the input of every keyword matcher.
func (e Entry) Text() string {
	return e.Title + " " + e.Summary
}

// Valid reports whether the entry carries the two required fields.
func (e Entry) Valid() bool {
	return e.Title != "" && e.URL != ""
}

var domainRe = regexp.MustCompile(`https?://([^/]+)/?`)

// SourceDomain returns the lower-cased host of the entry's source URL with
// "www." removed. Unparseable values are returned as-is.
func (e Entry) SourceDomain() string {
	return Domain(e.SourceURL)
}

func Domain(rawURL string) string {
	d := rawURL
	if m := domainRe.FindStringSubmatch(rawURL); m != nil {
		d = strings.ToLower(m[1])
	}
	return strings.ReplaceAll(d, "www.", "")
}

// Field looks up a projected field by its external name. The second result
// is false for names the entry does not know.
func (e Entry) Field(name string) (any, bool) {
	switch name {
	case "title":
		return e.Title, true
	case "url":
		return e.URL, true
	case "summary":
		return e.Summary, true
	case "source":
		return e.SourceName, true
	case "source_url":
		return e.SourceURL, true
	case "published_at":
		if e.PublishedAt == nil {
			return "", true
		}
		return e.PublishedAt.UTC().Format(time.RFC3339), true
	case "byline":
		return e.Byline, true
	case "country_guess", "country":
		return e.Country, true
	case "theme":
		return e.Theme, true
	case "entities":
		if e.Entities == nil {
			return []string{}, true
		}
		return e.Entities, true
	case "language_hint":
		return e.LanguageHint, true
	case "lang", "language":
		return e.Language, true
	case "score":
		return e.Score, true
	}
	return nil, false
}
