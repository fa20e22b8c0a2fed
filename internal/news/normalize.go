package news

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// NormalizeText trims, HTML-unescapes, replaces tags with spaces and
// collapses runs of whitespace.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = html.UnescapeString(s)
	s = tagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

var trackingParams = map[string]bool{
	"fbclid":            true,
	"gclid":             true,
	"mc_cid":            true,
	"mc_eid":            true,
	"oref":              true,
	"guce_referrer":     true,
	"guce_referrer_sig": true,
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	return strings.HasPrefix(key, "utm_") || trackingParams[key]
}

// CanonicalURL removes tracking query parameters, keeping the remaining
// parameters in their original order and encoding. The result is stable
// under repeated application.
func CanonicalURL(link string) string {
	if link == "" {
		return link
	}
	base, fragment := link, ""
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}
	q := strings.IndexByte(base, '?')
	if q < 0 {
		return link
	}
	path, query := base[:q], base[q+1:]

	var kept []string
	for _, param := range strings.Split(query, "&") {
		if param == "" {
			continue
		}
		key := param
		if i := strings.IndexByte(param, '='); i >= 0 {
			key = param[:i]
		}
		if isTrackingParam(key) {
			continue
		}
		kept = append(kept, param)
	}
	if len(kept) == 0 {
		return path + fragment
	}
	return path + "?" + strings.Join(kept, "&") + fragment
}

// TimestampFields carries the date material a feed item offers, both the
// raw strings and whatever the feed library already parsed.
type TimestampFields struct {
	Published string
	Updated   string
	Created   string

	PublishedParsed *time.Time
	UpdatedParsed   *time.Time
}

// dateparse accepts fragments such as "12:" or "0000" as year zero.
const minYear = 1970

// ParseTimestamp returns the first date it can make sense of, in UTC.
// Strings without a zone are read as UTC. Dates before minYear are
// treated as unparseable. A nil result means no date.
func ParseTimestamp(f TimestampFields) *time.Time {
	for _, raw := range []string{f.Published, f.Updated, f.Created} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseIn(raw, time.UTC); err == nil && t.Year() >= minYear {
			t = t.UTC()
			return &t
		}
	}
	for _, parsed := range []*time.Time{f.PublishedParsed, f.UpdatedParsed} {
		if parsed != nil && parsed.Year() >= minYear {
			t := parsed.UTC()
			return &t
		}
	}
	return nil
}
